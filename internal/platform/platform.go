// Package platform identifies the chat platforms anybot speaks to and maps each
// one to the concrete bot and adapter types its integration uses.
//
// The registry is filled once while adapter modules load and is only read
// afterwards. Lookups fail with ErrUnsupportedPlatform when nothing was
// registered for the requested key.
package platform

import (
	"fmt"
	"strings"
)

// Platform is a supported chat platform. The zero value is Unknown.
type Platform int

const (
	Unknown Platform = iota
	OneBotV11
	QQ
	QQGuild
	KOOK
	Discord
	Telegram
	Feishu
	DingTalk
)

var names = map[Platform]string{
	OneBotV11: "OneBotV11",
	QQ:        "QQ",
	QQGuild:   "QQGuild",
	KOOK:      "KOOK",
	Discord:   "Discord",
	Telegram:  "Telegram",
	Feishu:    "Feishu",
	DingTalk:  "DingTalk",
}

// config keys accepted by Parse in addition to the symbolic names
var aliases = map[string]Platform{
	"onebot":    OneBotV11,
	"onebotv11": OneBotV11,
	"qq":        QQ,
	"qqguild":   QQGuild,
	"kook":      KOOK,
	"kaiheila":  KOOK,
	"discord":   Discord,
	"telegram":  Telegram,
	"feishu":    Feishu,
	"lark":      Feishu,
	"dingtalk":  DingTalk,
}

// String returns the symbolic platform name used in rich ids
func (p Platform) String() string {
	if name, ok := names[p]; ok {
		return name
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}

// Valid reports whether p is one of the declared platforms
func (p Platform) Valid() bool {
	_, ok := names[p]
	return ok
}

// All returns every declared platform in declaration order
func All() []Platform {
	out := make([]Platform, 0, len(names))
	for p := OneBotV11; p <= DingTalk; p++ {
		out = append(out, p)
	}
	return out
}

// Parse resolves a platform from its symbolic name or config key, ignoring case
func Parse(name string) (Platform, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if p, ok := aliases[key]; ok {
		return p, nil
	}
	for p, n := range names {
		if strings.ToLower(n) == key {
			return p, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
}
