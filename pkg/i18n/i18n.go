// Package i18n 面向用户的消息翻译
// 日志保持中文，返回给打卡终端与管理后台的提示按请求语言翻译，默认葡萄牙语（巴西）。
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle        *i18n.Bundle
	matcher       language.Matcher
	supported     []language.Tag
	defaultLocale = "pt-BR"
)

type ctxKey struct{}

// Init 加载全部语言文件并设置默认语言
func Init(defLocale string) error {
	if defLocale != "" {
		defaultLocale = defLocale
	}
	base, err := language.Parse(defaultLocale)
	if err != nil {
		return fmt.Errorf("i18n: 无效的默认语言 %q: %w", defaultLocale, err)
	}

	b := i18n.NewBundle(base)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("i18n: 读取语言目录失败: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("i18n: 读取 %s 失败: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("i18n: 解析 %s 失败: %w", e.Name(), err)
		}
	}

	// 默认语言排在首位，匹配失败时回落到它
	tags := []language.Tag{base}
	for _, t := range b.LanguageTags() {
		if t != base {
			tags = append(tags, t)
		}
	}

	bundle = b
	supported = tags
	matcher = language.NewMatcher(tags)
	return nil
}

// Negotiate 根据 Accept-Language 选出受支持的语言
func Negotiate(acceptLanguage string) string {
	if matcher == nil || acceptLanguage == "" {
		return defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return defaultLocale
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return defaultLocale
	}
	if idx < 0 || idx >= len(supported) {
		return defaultLocale
	}
	return supported[idx].String()
}

// WithLocale 返回携带语言的 context
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext 取出 context 中的语言，未设置时返回默认语言
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return defaultLocale
}

// T 按 context 语言翻译消息，找不到条目时返回消息 ID
func T(ctx context.Context, messageID string, templateData ...map[string]any) string {
	if bundle == nil {
		return messageID
	}
	l := i18n.NewLocalizer(bundle, LocaleFromContext(ctx), defaultLocale)

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
