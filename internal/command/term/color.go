package term

import (
	"github.com/fatih/color"

	"github.com/simplesurance/descpub/pkg/build"
)

var (
	GreenHighlight  = color.New(color.FgGreen).SprintFunc()
	RedHighlight    = color.New(color.FgRed).SprintFunc()
	YellowHighlight = color.New(color.FgYellow).SprintFunc()

	MagentaHighlight = color.New(color.FgMagenta).SprintFunc()

	Underline = color.New(color.Underline).SprintFunc()

	Highlight = MagentaHighlight
)

// ColoredResult returns the build result, colored by its severity.
func ColoredResult(result build.Result) string {
	switch result {
	case build.ResultSuccess:
		return GreenHighlight(string(result))
	case build.ResultFailure:
		return RedHighlight(string(result))
	case build.ResultAborted:
		return YellowHighlight(string(result))
	default:
		return string(result)
	}
}
