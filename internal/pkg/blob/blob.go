// Package blob 管理照片文件的本地落盘存储。
//
// 文件名为随机十六进制串（保留原扩展名），对外只暴露文件名；
// 静态路由负责把 /tree_photos/<name> 映射回文件。
package blob

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// Store 是以生成路径为键的本地文件存储。
type Store struct {
	dir string
}

// New 创建存储目录（如不存在）。
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir 返回存储目录（静态路由挂载用）。
func (s *Store) Dir() string { return s.dir }

// Save 落盘一个上传文件，返回生成的文件名。
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	name := hex.EncodeToString(buf)
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != "" {
		name += ext
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// Remove 删除一个文件。文件不存在时不报错（幂等）。
func (s *Store) Remove(name string) error {
	// 只接受裸文件名，不接受路径
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid blob name: %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
