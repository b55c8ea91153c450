package core

import "github.com/JonMunkholm/seokit/internal/pipeline"

func init() {
	Register(Tool{
		Key:                   ToolHighlightRows,
		Name:                  "Highlight Rows",
		Description:           "Highlight rows in a Google Sheets document based on the values of a specific column.",
		Icon:                  "🎨",
		Path:                  "/tools/highlight-rows",
		Order:                 1,
		AcceptsServiceAccount: true,
		Stages:                pipeline.Names(highlightStages),
	})
	Register(Tool{
		Key:           ToolDetectLanguage,
		Name:          "Detect Language",
		Description:   "Detect the language of text in a Google Sheets column.",
		Icon:          "🔍",
		Path:          "/tools/detect-language",
		Order:         2,
		RequiresLogin: true,
		Stages:        pipeline.Names(detectStages),
	})
}
