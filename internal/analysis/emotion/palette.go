package emotion

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Label 表示分析服务返回的情绪标签。标签集合是开放的，未知标签同样合法。
type Label string

const (
	Joy      Label = "joy"
	Sadness  Label = "sadness"
	Anger    Label = "anger"
	Fear     Label = "fear"
	Surprise Label = "surprise"
	Love     Label = "love"
	Neutral  Label = "neutral"
)

// Color 是 #RRGGBB 形式的展示颜色。
type Color string

// Glyph 是展示情绪用的 emoji。
type Glyph string

const (
	// DefaultColor 用于未知标签。
	DefaultColor Color = "#808080"
	// DefaultGlyph 用于未知标签。
	DefaultGlyph Glyph = "😐"
)

// Known 按固定顺序列出已知标签。
var Known = []Label{Joy, Sadness, Anger, Fear, Surprise, Love, Neutral}

var colorTable = map[Label]Color{
	Joy:      "#FFD700",
	Sadness:  "#4169E1",
	Anger:    "#FF4500",
	Fear:     "#8A2BE2",
	Surprise: "#FF69B4",
	Love:     "#FF1493",
	Neutral:  "#808080",
}

var glyphTable = map[Label]Glyph{
	Joy:      "😄",
	Sadness:  "😢",
	Anger:    "😡",
	Fear:     "😨",
	Surprise: "😲",
	Love:     "❤️",
	Neutral:  "😐",
}

// ColorOf 返回标签对应的颜色，未知标签返回 DefaultColor，从不失败。
func ColorOf(label Label) Color {
	if c, ok := colorTable[normalize(label)]; ok {
		return c
	}
	return DefaultColor
}

// GlyphOf 返回标签对应的 emoji，未知标签返回 DefaultGlyph。
func GlyphOf(label Label) Glyph {
	if g, ok := glyphTable[normalize(label)]; ok {
		return g
	}
	return DefaultGlyph
}

// IsKnown 判断标签是否属于固定的七类情绪。
func IsKnown(label Label) bool {
	_, ok := colorTable[normalize(label)]
	return ok
}

// DisplayName 将首字母大写，其余部分保持原样，例如 "joy" -> "Joy"。
func DisplayName(label Label) string {
	raw := string(label)
	r, size := utf8.DecodeRuneInString(raw)
	if r == utf8.RuneError {
		return raw
	}
	return string(unicode.ToUpper(r)) + raw[size:]
}

func normalize(label Label) Label {
	return Label(strings.ToLower(strings.TrimSpace(string(label))))
}
