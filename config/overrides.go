package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Overrides decides which image(s) appear on the question side of each
// entry's cards. Precedence: custom image list, then 1-based selection
// index, then all extracted images.
type Overrides struct {
	CustomImage map[string]StringList `json:"custom_image"`
	SelectImage map[string]int        `json:"select_image"`
}

// StringList unmarshals from either a single JSON string or a list of
// strings; the override file uses both forms.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*s = StringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = StringList(list)
	return nil
}

// CustomFor returns the custom image list for an entry, if configured.
// Safe on a nil receiver.
func (o *Overrides) CustomFor(entry string) ([]string, bool) {
	if o == nil {
		return nil, false
	}
	imgs, ok := o.CustomImage[entry]
	return []string(imgs), ok
}

// SelectFor returns the 1-based image selection index for an entry, if
// configured. Safe on a nil receiver.
func (o *Overrides) SelectFor(entry string) (int, bool) {
	if o == nil {
		return 0, false
	}
	idx, ok := o.SelectImage[entry]
	return idx, ok
}

// LoadOverrides reads and parses the JSON override file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overrides %s: %w", path, err)
	}
	var o Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing overrides %s: %w", path, err)
	}
	return &o, nil
}

// FormatOverridesFile rewrites the override file in canonical form: keys
// sorted, two-space indentation, trailing newline. encoding/json already
// emits map keys in sorted order, so canonicalizing is decode plus
// re-encode.
func FormatOverridesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading overrides %s: %w", path, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parsing overrides %s: %w", path, err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding overrides: %w", err)
	}
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing overrides %s: %w", path, err)
	}
	return nil
}
