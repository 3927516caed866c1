// Package tgui provides small helpers for building Telegram messages:
//   - HTML-safe fragments for ParseMode="HTML"
//   - Rune-safe truncation that respects Telegram's message limit
//
// Design goals:
//   - Safe by default for Telegram ParseMode="HTML" (auto escaping)
//   - Never split a multi-byte character when cutting text
package tgui
