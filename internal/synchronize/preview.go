package synchronize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PreviewURLs expands a preview URL template for pull request id. The
// template is either a single URL where "%" stands for the id, or a JSON
// object mapping label names to such URLs; the latter yields one URL per
// matching label, in label order.
func PreviewURLs(id string, labels []string, template string) ([]string, error) {
	if template == "" {
		return nil, nil
	}

	if !strings.HasPrefix(template, "{") {
		return []string{expand(template, id)}, nil
	}

	var byLabel map[string]string
	if err := json.Unmarshal([]byte(template), &byLabel); err != nil {
		return nil, fmt.Errorf("invalid amplify uri map: %w", err)
	}

	var urls []string
	for _, label := range labels {
		if tpl, ok := byLabel[label]; ok && tpl != "" {
			urls = append(urls, expand(tpl, id))
		}
	}
	return urls, nil
}

func expand(template, id string) string {
	return strings.Replace(template, "%", id, 1)
}
