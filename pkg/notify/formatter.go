package notify

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{
	language.English, // first entry is the fallback
	language.Russian,
}

var localeMatcher = language.NewMatcher(supportedLocales)

type messageID string

const (
	msgNodeHealthy   messageID = "node-became-healthy"
	msgNodeUnhealthy messageID = "node-became-unhealthy"
	msgDNSAdded      messageID = "dns-record-added"
	msgDNSRemoved    messageID = "dns-record-removed"
	msgDNSError      messageID = "dns-operation-error"
	msgThrottled     messageID = "node-throttled"
	msgRestored      messageID = "node-restored"
	msgAllDown       messageID = "all-nodes-down"
	msgCheckError    messageID = "health-check-error"
	msgStarted       messageID = "service-started"
	msgStopped       messageID = "service-stopped"
)

var messages = map[language.Tag]map[messageID]string{
	language.English: {
		msgNodeHealthy:   "✅ <b>%s</b> (%s) is back online\nNodes: %d/%d online, %d disabled",
		msgNodeUnhealthy: "❌ <b>%s</b> (%s) went down: %s\nNodes: %d/%d online, %d disabled",
		msgDNSAdded:      "➕ DNS record added: <code>%s</code> → <code>%s</code>",
		msgDNSRemoved:    "➖ DNS record removed: <code>%s</code> → <code>%s</code>",
		msgDNSError:      "⚠️ DNS %s failed for <code>%s</code> (<code>%s</code>): %s",
		msgThrottled:     "📈 <b>%s</b> (%s) throttled in %s: %d users online, threshold %d",
		msgRestored:      "📉 <b>%s</b> (%s) restored in %s: %d users online, threshold %d",
		msgAllDown:       "🚨 <b>ALL %d NODES ARE DOWN</b>\n%s",
		msgCheckError:    "⚠️ Health check failed: %s",
		msgStarted:       "🟢 DNS steering service started",
		msgStopped:       "🔴 DNS steering service stopped",
	},
	language.Russian: {
		msgNodeHealthy:   "✅ <b>%s</b> (%s) снова в строю\nНоды: %d/%d онлайн, %d отключено",
		msgNodeUnhealthy: "❌ <b>%s</b> (%s) недоступна: %s\nНоды: %d/%d онлайн, %d отключено",
		msgDNSAdded:      "➕ DNS-запись добавлена: <code>%s</code> → <code>%s</code>",
		msgDNSRemoved:    "➖ DNS-запись удалена: <code>%s</code> → <code>%s</code>",
		msgDNSError:      "⚠️ Ошибка DNS (%s) для <code>%s</code> (<code>%s</code>): %s",
		msgThrottled:     "📈 <b>%s</b> (%s) выведена из %s: %d пользователей, порог %d",
		msgRestored:      "📉 <b>%s</b> (%s) возвращена в %s: %d пользователей, порог %d",
		msgAllDown:       "🚨 <b>ВСЕ НОДЫ (%d) НЕДОСТУПНЫ</b>\n%s",
		msgCheckError:    "⚠️ Ошибка проверки: %s",
		msgStarted:       "🟢 Служба DNS-балансировки запущена",
		msgStopped:       "🔴 Служба DNS-балансировки остановлена",
	},
}

// Formatter renders events as chat messages in a single locale chosen at
// construction time.
type Formatter struct {
	tag language.Tag
}

// NewFormatter matches locale against the supported set, falling back to
// English for anything unrecognized.
func NewFormatter(locale string) *Formatter {
	_, i := language.MatchStrings(localeMatcher, locale)
	return &Formatter{tag: supportedLocales[i]}
}

func (f *Formatter) message(id messageID) string {
	if m, ok := messages[f.tag][id]; ok {
		return m
	}
	return messages[language.English][id]
}

// Format renders e. Unknown event types render as an empty string, which
// the notifier drops.
func (f *Formatter) Format(e Event) string {
	switch e := e.(type) {
	case NodeStateChange:
		if e.CurrentHealthy {
			return fmt.Sprintf(f.message(msgNodeHealthy), e.NodeName, e.NodeAddress, e.Stats.Online, e.Stats.Total, e.Stats.Disabled)
		}
		reason := e.Reason
		if reason == "" {
			reason = "unknown"
		}
		return fmt.Sprintf(f.message(msgNodeUnhealthy), e.NodeName, e.NodeAddress, reason, e.Stats.Online, e.Stats.Total, e.Stats.Disabled)
	case DNSChange:
		id := msgDNSAdded
		if e.Action == DNSRemoved {
			id = msgDNSRemoved
		}
		return fmt.Sprintf(f.message(id), e.ZoneName+"."+e.Domain, e.IPAddress)
	case DNSError:
		return fmt.Sprintf(f.message(msgDNSError), e.Action, e.ZoneName+"."+e.Domain, e.IPAddress, e.Message)
	case CapacityChange:
		id := msgThrottled
		if e.Action == CapacityRestored {
			id = msgRestored
		}
		return fmt.Sprintf(f.message(id), e.NodeName, e.NodeAddress, e.ZoneName+"."+e.Domain, e.UsersOnline, e.Threshold)
	case CriticalState:
		return fmt.Sprintf(f.message(msgAllDown), e.TotalNodes, strings.Join(e.DownNodes, ", "))
	case HealthCheckError:
		return fmt.Sprintf(f.message(msgCheckError), e.Message)
	case ServiceStarted:
		return f.message(msgStarted)
	case ServiceStopped:
		return f.message(msgStopped)
	}
	return ""
}
