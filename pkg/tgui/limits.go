package tgui

// MaxMessageRunes is Telegram's sendMessage text limit, counted in Unicode code points
// after entity parsing.
const MaxMessageRunes = 4096
