package hydrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecoderFromFixtures(t *testing.T) {
	fx := loadFixture(t, "hydrate_settings.json")

	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			decoder := NewDecoder[notificationSettings](buildOptions(tc)...)
			ctx := Context{Name: tc.Container, Path: tc.Path}

			result, err := decoder.Decode(ctx, tc.Input)

			if tc.ExpectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.ExpectErr)
				}
				if !strings.Contains(err.Error(), tc.ExpectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.ExpectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if diff := cmp.Diff(tc.Expect, result); diff != "" {
				t.Fatalf("decoded settings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeNilPayload(t *testing.T) {
	_, err := NewDecoder[notificationSettings]().Decode(Context{}, nil)
	if err == nil || !strings.Contains(err.Error(), "payload is nil for params") {
		t.Fatalf("expected nil payload error, got %v", err)
	}
}

func TestUseNumberKeepsPrecision(t *testing.T) {
	type raw struct {
		Value any `json:"value"`
	}
	out, err := NewDecoder(WithUseNumber[raw]()).Decode(Context{Name: "n"}, map[string]any{"value": 9007199254740993})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	number, ok := out.Value.(json.Number)
	if !ok || number.String() != "9007199254740993" {
		t.Fatalf("expected json.Number, got %#v", out.Value)
	}
}

func buildOptions(tc fixtureCase) []DecoderOption[notificationSettings] {
	options := []DecoderOption[notificationSettings]{}

	for _, optName := range tc.Options {
		switch optName {
		case "use_number":
			options = append(options, WithUseNumber[notificationSettings]())
		case "disallow_unknown":
			options = append(options, WithDisallowUnknownFields[notificationSettings]())
		case "yaml":
			options = append(options, WithYAML[notificationSettings]())
		}
	}
	for _, hookName := range tc.PreHooks {
		if hookName == "quiet_hours_split" {
			options = append(options, WithPreHook[notificationSettings](quietHoursPreHook))
		}
	}
	for _, hookName := range tc.PostHooks {
		if hookName == "ensure_tag" {
			options = append(options, WithPostHook[notificationSettings](ensureTagPostHook))
		}
	}
	if tc.CustomDecoder == "snapshot_string" {
		options = append(options, WithCustomDecoder[notificationSettings](snapshotStringDecoder))
	}
	return options
}

func quietHoursPreHook(_ Context, payload map[string]any) (map[string]any, error) {
	value, ok := payload["quietHours"].(string)
	if !ok || value == "" {
		return payload, nil
	}
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid quiet hours payload %q", value)
	}
	payload["quietHours"] = map[string]any{
		"start": strings.TrimSpace(parts[0]),
		"end":   strings.TrimSpace(parts[1]),
	}
	return payload, nil
}

func ensureTagPostHook(ctx Context, settings *notificationSettings) error {
	if settings == nil {
		return errors.New("settings is nil")
	}
	if len(settings.Tags) == 0 {
		settings.Tags = []string{ctx.Name + ":" + ctx.Path}
	}
	return nil
}

func snapshotStringDecoder(ctx Context, payload map[string]any) (notificationSettings, error) {
	var out notificationSettings
	raw, ok := payload["snapshot"].(string)
	if !ok || raw == "" {
		return out, fmt.Errorf("missing snapshot string for %s", ctx.label())
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	err := dec.Decode(&out)
	return out, err
}

type fixture struct {
	Description string        `json:"description"`
	Cases       []fixtureCase `json:"cases"`
}

type fixtureCase struct {
	Name          string               `json:"name"`
	Container     string               `json:"container"`
	Path          string               `json:"path"`
	Input         map[string]any       `json:"input"`
	Expect        notificationSettings `json:"expect"`
	ExpectErr     string               `json:"expectErr"`
	PreHooks      []string             `json:"preHooks"`
	PostHooks     []string             `json:"postHooks"`
	Options       []string             `json:"options"`
	CustomDecoder string               `json:"customDecoder"`
}

type notificationSettings struct {
	Enabled    bool            `json:"enabled" yaml:"enabled"`
	QuietHours quietHours      `json:"quietHours" yaml:"quietHours"`
	Channels   channelSettings `json:"channels" yaml:"channels"`
	Limits     limits          `json:"limits" yaml:"limits"`
	Tags       []string        `json:"tags" yaml:"tags"`
}

type quietHours struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

type channelSettings struct {
	Email channel `json:"email" yaml:"email"`
	Push  channel `json:"push" yaml:"push"`
}

type channel struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Frequency string `json:"frequency" yaml:"frequency"`
	Threshold int    `json:"threshold" yaml:"threshold"`
}

type limits struct {
	Daily   int `json:"daily" yaml:"daily"`
	Monthly int `json:"monthly" yaml:"monthly"`
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read hydrate fixture %q: %v", name, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal hydrate fixture %q: %v", name, err)
	}
	return fx
}
