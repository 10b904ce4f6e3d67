// Package watering 实现浇水提醒规则：
// 按树种映射期望浇水间隔（天），并判断一棵树是否到期需要浇水。
package watering

import (
	"strings"
	"time"
)

// DefaultIntervalDays 是未识别树种的默认浇水间隔。
const DefaultIntervalDays = 7

// 树种名子串 → 浇水间隔（天）。
//
// 与历史实现保持一致使用大小写不敏感的子串匹配；
// 匹配按表序进行，命中第一个即返回。
var intervals = []struct {
	substr string
	days   int
}{
	{"willow", 3},
	{"maple", 5},
	{"cherry", 6},
	{"oak", 7},
	{"pine", 10},
}

// IntervalDays 返回树种的浇水间隔（天）。
func IntervalDays(speciesName string) int {
	name := strings.ToLower(speciesName)
	for _, e := range intervals {
		if strings.Contains(name, e.substr) {
			return e.days
		}
	}
	return DefaultIntervalDays
}

// ElapsedDays 返回自上次浇水起经过的整天数（向下取整，不做四舍五入）。
func ElapsedDays(lastWatered, now time.Time) int {
	if now.Before(lastWatered) {
		return 0
	}
	return int(now.Sub(lastWatered).Hours() / 24)
}

// NeedsWatering 判断树是否需要浇水：
// 从未浇过水，或距最近一次浇水已满该树种的间隔天数（含边界，>=）。
func NeedsWatering(speciesName string, lastWatered *time.Time, now time.Time) bool {
	if lastWatered == nil {
		return true
	}
	return ElapsedDays(*lastWatered, now) >= IntervalDays(speciesName)
}
