package qrcode

import "math"

// Capacity is the maximum payload of the largest symbol (version 40, level L)
// per encoding mode.
type Capacity struct {
	Numeric      int `json:"numeric"`
	Alphanumeric int `json:"alphanumeric"`
	Binary       int `json:"binary"`
	Kanji        int `json:"kanji"`
}

var MaxCapacity = Capacity{Numeric: 7089, Alphanumeric: 4296, Binary: 2953, Kanji: 1817}

// Advice describes how a text would encode.
type Advice struct {
	Text                       string   `json:"text"`
	Length                     int      `json:"length"`
	EstimatedQRSize            int      `json:"estimatedQRSize"`
	RecommendedErrorCorrection Level    `json:"recommendedErrorCorrection"`
	SupportedFormats           []Format `json:"supportedFormats"`
	MaxCapacity                Capacity `json:"maxCapacity"`
}

// Advise estimates the symbol for text. Texts over 100 bytes are advised
// level H.
func Advise(text string) Advice {
	n := len(text)
	level := LevelM
	if n > 100 {
		level = LevelH
	}
	return Advice{
		Text:                       text,
		Length:                     n,
		EstimatedQRSize:            int(math.Ceil(float64(n) * 1.2)),
		RecommendedErrorCorrection: level,
		SupportedFormats:           Formats,
		MaxCapacity:                MaxCapacity,
	}
}

type LimitsInfo struct {
	MaxTextLength int `json:"maxTextLength"`
	MaxBatchSize  int `json:"maxBatchSize"`
	MaxWidth      int `json:"maxWidth"`
	MinWidth      int `json:"minWidth"`
}

// FormatsInfo is the capability descriptor served to clients.
type FormatsInfo struct {
	Formats               []Format   `json:"formats"`
	ErrorCorrectionLevels []Level    `json:"errorCorrectionLevels"`
	DefaultOptions        Options    `json:"defaultOptions"`
	Limits                LimitsInfo `json:"limits"`
}

func Describe() FormatsInfo {
	return FormatsInfo{
		Formats:               Formats,
		ErrorCorrectionLevels: Levels,
		DefaultOptions:        DefaultOptions(),
		Limits: LimitsInfo{
			MaxTextLength: MaxTextLength,
			MaxBatchSize:  MaxBatchSize,
			MaxWidth:      MaxWidth,
			MinWidth:      MinWidth,
		},
	}
}
