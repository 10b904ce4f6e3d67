package notify

import "time"

// Notifier 定义邮件通知接口。
type Notifier interface {
	// SendWateringReminder 提醒树主某棵树需要浇水。
	//
	// 参数:
	//   toEmail: 接收邮箱
	//   ownerName: 树主姓名
	//   speciesName: 树种名
	//   lastWatered: 最近一次浇水日期（从未浇水传 nil）
	//   intervalDays: 该树种的浇水间隔（天）
	SendWateringReminder(toEmail, ownerName, speciesName string, lastWatered *time.Time, intervalDays int) error

	// SendPasswordReset 发送密码重置令牌。
	SendPasswordReset(toEmail, resetToken string) error

	// SendMessage 发送一封任意主题/正文的邮件（管理员留言）。
	SendMessage(toEmail, subject, body string) error
}
