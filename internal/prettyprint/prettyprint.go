// Package prettyprint renders values for debug logs and terminal summaries.
package prettyprint

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AsString renders in as indented JSON, it is used to dump publish
// outcomes and configuration values in --verbose mode.
// Values that can not be encoded as JSON are rendered with %+v.
func AsString(in any) string {
	res, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", in)
	}

	return string(res)
}

// TruncatedStrSlice joins the first maxElems elements of sl with ", ".
// If elements were omitted the number of them is appended, e.g.
// "linux, darwin (+3 more)".
func TruncatedStrSlice(sl []string, maxElems int) string {
	if maxElems < 0 {
		maxElems = 0
	}

	if len(sl) <= maxElems {
		return strings.Join(sl, ", ")
	}

	omitted := fmt.Sprintf("(+%d more)", len(sl)-maxElems)
	if maxElems == 0 {
		return omitted
	}

	return strings.Join(sl[:maxElems], ", ") + " " + omitted
}
