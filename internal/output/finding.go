package output

import (
	"fmt"
	"strings"
)

// ChainSeparator joins redirect chain URLs in human-readable output.
const ChainSeparator = " --> "

// Finding is a substitution whose request ended in HTTP 200.
type Finding struct {
	URL         string   `json:"url"`
	Target      string   `json:"target"`
	Payload     string   `json:"payload"`
	Chain       []string `json:"chain"`
	FinalURL    string   `json:"final_url"`
	StatusCode  int      `json:"status"`
	Offsite     bool     `json:"offsite"`
	MetaRefresh string   `json:"meta_refresh,omitempty"`
}

// ChainText returns the redirect chain joined with ChainSeparator, or the
// filled URL itself when no redirect happened.
func (f *Finding) ChainText() string {
	if len(f.Chain) == 0 {
		return f.URL
	}
	return strings.Join(f.Chain, ChainSeparator)
}

// String is the line written to text result files.
func (f *Finding) String() string {
	return fmt.Sprintf("%s redirects to %s", f.URL, f.ChainText())
}
