// Package plistcodec converts task configurations to and from launchd
// property lists.
package plistcodec

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/den-cli/den/internal/domain"
	"howett.net/plist"
)

// launchd agent definition keys.
const (
	keyLabel                = "Label"
	keyProgramArguments     = "ProgramArguments"
	keyRunAtLoad            = "RunAtLoad"
	keyEnvironmentVariables = "EnvironmentVariables"
	keyStartInterval        = "StartInterval"
	keyStartCalendar        = "StartCalendarInterval"
	keyHour                 = "Hour"
	keyMinute               = "Minute"
)

// Codec implements domain.PlistCodec.
type Codec struct{}

// New creates a new Codec.
func New() *Codec {
	return &Codec{}
}

// Ensure Codec implements domain.PlistCodec interface.
var _ domain.PlistCodec = (*Codec)(nil)

// Encode renders cfg as an XML property list with the Apple DOCTYPE.
func (c *Codec) Encode(cfg *domain.TaskConfig) (string, error) {
	if cfg == nil {
		return "", generateError("config is nil", nil)
	}
	if err := cfg.Validate(); err != nil {
		return "", generateError("invalid task config", err)
	}
	if err := checkEncodable(cfg); err != nil {
		return "", err
	}

	doc := map[string]any{
		keyLabel:            cfg.Label,
		keyProgramArguments: cfg.ProgramArguments,
		keyRunAtLoad:        cfg.RunAtLoad,
	}

	if len(cfg.EnvironmentVariables) > 0 {
		doc[keyEnvironmentVariables] = cfg.EnvironmentVariables
	}

	switch cfg.Schedule() {
	case domain.ScheduleInterval:
		doc[keyStartInterval] = *cfg.StartInterval
	case domain.ScheduleCalendar:
		doc[keyStartCalendar] = map[string]int{
			keyHour:   *cfg.StartCalendarHour,
			keyMinute: *cfg.StartCalendarMinute,
		}
	case domain.ScheduleNone:
	}

	out, err := plist.MarshalIndent(doc, plist.XMLFormat, "\t")
	if err != nil {
		return "", generateError("marshal", err)
	}
	return string(out), nil
}

// Decode parses an XML or binary property list into a TaskConfig.
// A missing RunAtLoad key decodes as true.
func (c *Codec) Decode(content string) (*domain.TaskConfig, error) {
	if strings.TrimSpace(content) == "" {
		return nil, parseError("empty document", nil)
	}

	var doc map[string]any
	format, err := plist.Unmarshal([]byte(content), &doc)
	if err != nil {
		return nil, parseError("malformed property list", err)
	}
	if format != plist.XMLFormat && format != plist.BinaryFormat {
		return nil, parseError(fmt.Sprintf("unsupported property list format %q", plist.FormatNames[format]), nil)
	}

	cfg := &domain.TaskConfig{RunAtLoad: true}

	label, ok := doc[keyLabel].(string)
	if !ok || label == "" {
		return nil, parseError("missing required 'Label' key", nil)
	}
	cfg.Label = label

	args, err := stringSlice(doc[keyProgramArguments])
	if err != nil {
		return nil, parseError("'ProgramArguments' must be an array of strings", err)
	}
	if len(args) == 0 {
		return nil, parseError("missing required 'ProgramArguments' key", nil)
	}
	cfg.ProgramArguments = args

	if raw, present := doc[keyRunAtLoad]; present {
		b, ok := raw.(bool)
		if !ok {
			return nil, parseError("'RunAtLoad' must be a boolean", nil)
		}
		cfg.RunAtLoad = b
	}

	if raw, present := doc[keyEnvironmentVariables]; present {
		env, err := stringMap(raw)
		if err != nil {
			return nil, parseError("'EnvironmentVariables' must be a dictionary of strings", err)
		}
		if len(env) > 0 {
			cfg.EnvironmentVariables = env
		}
	}

	if raw, present := doc[keyStartInterval]; present {
		seconds, err := integer(raw)
		if err != nil {
			return nil, parseError("'StartInterval' must be an integer", err)
		}
		cfg.StartInterval = domain.IntPtr(seconds)
	}

	if raw, present := doc[keyStartCalendar]; present {
		hour, minute, err := calendarEntry(raw)
		if err != nil {
			return nil, parseError("invalid 'StartCalendarInterval'", err)
		}
		cfg.StartCalendarHour = domain.IntPtr(hour)
		cfg.StartCalendarMinute = domain.IntPtr(minute)
	}

	return cfg, nil
}

// checkEncodable rejects strings XML 1.0 cannot carry.
// Markup characters are escaped by the encoder; anything outside the XML Char
// production would be replaced with U+FFFD and not survive a round trip.
func checkEncodable(cfg *domain.TaskConfig) error {
	check := func(field, s string) error {
		if !utf8.ValidString(s) {
			return generateError(fmt.Sprintf("%s is not valid UTF-8", field), nil)
		}
		for _, r := range s {
			if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
				return generateError(fmt.Sprintf("%s contains control character %U", field, r), nil)
			}
			if !isXMLChar(r) {
				return generateError(fmt.Sprintf("%s contains character %U not allowed in XML", field, r), nil)
			}
		}
		return nil
	}

	if err := check(keyLabel, cfg.Label); err != nil {
		return err
	}
	for _, arg := range cfg.ProgramArguments {
		if err := check(keyProgramArguments, arg); err != nil {
			return err
		}
	}
	for k, v := range cfg.EnvironmentVariables {
		if err := check(keyEnvironmentVariables, k); err != nil {
			return err
		}
		if err := check(keyEnvironmentVariables, v); err != nil {
			return err
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char range.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= utf8.MaxRune:
		return true
	}
	return false
}

func stringSlice(raw any) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("got %T", raw)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d is %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func stringMap(raw any) (map[string]string, error) {
	dict, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("got %T", raw)
	}
	out := make(map[string]string, len(dict))
	for k, v := range dict {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value of %q is %T", k, v)
		}
		out[k] = s
	}
	return out, nil
}

func integer(raw any) (int, error) {
	switch v := raw.(type) {
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, fmt.Errorf("%d out of range", v)
		}
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, fmt.Errorf("%d out of range", v)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("got %T", raw)
	}
}

// calendarEntry extracts Hour and Minute from a calendar dictionary.
// launchd also accepts an array of dictionaries; a single-element array is
// treated as that dictionary.
func calendarEntry(raw any) (int, int, error) {
	if items, ok := raw.([]any); ok {
		if len(items) != 1 {
			return 0, 0, fmt.Errorf("expected one calendar entry, got %d", len(items))
		}
		raw = items[0]
	}

	dict, ok := raw.(map[string]any)
	if !ok {
		return 0, 0, fmt.Errorf("got %T", raw)
	}

	hourRaw, hasHour := dict[keyHour]
	minuteRaw, hasMinute := dict[keyMinute]
	if !hasHour || !hasMinute {
		return 0, 0, fmt.Errorf("both 'Hour' and 'Minute' are required")
	}

	hour, err := integer(hourRaw)
	if err != nil {
		return 0, 0, fmt.Errorf("'Hour': %w", err)
	}
	minute, err := integer(minuteRaw)
	if err != nil {
		return 0, 0, fmt.Errorf("'Minute': %w", err)
	}
	return hour, minute, nil
}

func generateError(reason string, err error) error {
	return &domain.PlistError{Op: "generate", Reason: reason, Err: err}
}

func parseError(reason string, err error) error {
	return &domain.PlistError{Op: "parse", Reason: reason, Err: err}
}
