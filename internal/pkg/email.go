package pkg

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

func EmailCodeHTML(subject, code string, ttl time.Duration) string {
	minM := int(ttl.Minutes())
	return fmt.Sprintf(`<p>Hello,</p><p>You requested <b>%s</b>. Your verification code is <b style="font-size:18px;">%s</b>.</p><p>The code expires in %d minutes. Do not share it.</p>`, subject, code, minM)
}

// ActivationHTML 激活邮件正文
func ActivationHTML(username, activationURL string) string {
	return fmt.Sprintf(`<p>Hello %s,</p><p>Welcome to NewsPortal! Click the link below to activate your account:</p><p><a href="%s">%s</a></p><p>The link is valid for 24 hours.</p>`, username, activationURL, activationURL)
}

// NewsAlertHTML 新闻即时通知正文：标题 + 链接 + 摘要
func NewsAlertHTML(title, postURL, excerpt string) string {
	return fmt.Sprintf(`<p>A new post was published in a category you subscribe to:</p><h3><a href="%s">%s</a></h3><p>%s</p>`, postURL, title, excerpt)
}

// DigestItem 摘要邮件里的一条
type DigestItem struct {
	Title    string
	URL      string
	Category string
}

// DigestHTML 每周摘要正文，一封邮件汇总该用户订阅的所有分类
func DigestHTML(username string, items []DigestItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p>Hello %s,</p><p>New posts in your subscribed categories this week:</p><ul>`, username)
	for _, it := range items {
		fmt.Fprintf(&b, `<li>[%s] <a href="%s">%s</a></li>`, it.Category, it.URL, it.Title)
	}
	b.WriteString(`</ul>`)
	return b.String()
}
