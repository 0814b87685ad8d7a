package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Attachment is a reference to a stored file
// swagger:model
type Attachment struct {
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
}

// Attachments is an ordered list of attachments. It's persisted as a JSON array.
type Attachments []Attachment

// ParseAttachments decodes a serialized JSON list of attachments as sent by clients. An empty
// string decodes to an empty list.
func ParseAttachments(serialized string) (Attachments, error) {
	if strings.TrimSpace(serialized) == "" {
		return Attachments{}, nil
	}

	var attachments Attachments
	if err := json.Unmarshal([]byte(serialized), &attachments); err != nil {
		return nil, fmt.Errorf("invalid attachment list: %v", err)
	}
	if attachments == nil {
		attachments = Attachments{}
	}
	return attachments, nil
}

// Append returns a new list holding a followed by every attachment in others whose URL isn't
// already present. The order of a and others is preserved and nothing is ever removed.
func (a Attachments) Append(others ...Attachment) Attachments {
	merged := make(Attachments, 0, len(a)+len(others))
	seen := make(map[string]struct{}, len(a)+len(others))
	for _, attachment := range a {
		merged = append(merged, attachment)
		seen[attachment.URL] = struct{}{}
	}
	for _, attachment := range others {
		if _, ok := seen[attachment.URL]; ok {
			continue
		}
		merged = append(merged, attachment)
		seen[attachment.URL] = struct{}{}
	}
	return merged
}
