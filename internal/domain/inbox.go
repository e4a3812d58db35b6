package domain

// Inbox 表示一次性邮箱服务创建的临时收件箱。
//
// 每个 /gen 请求创建一个新的收件箱，流程结束后直接丢弃，不做显式删除。
type Inbox struct {
	Address string `json:"address"` // 邮箱地址
	Token   string `json:"token"`   // 拉取邮件时使用的检索令牌
}

// Email 表示收件箱中的一封邮件
type Email struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"` // 纯文本正文
	HTML    string `json:"html"` // HTML 正文（可能为空）
}
