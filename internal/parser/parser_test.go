package parser

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mcncl/json2xml/internal/errors"
	"github.com/mcncl/json2xml/internal/models"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`
	ir, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	if ir.RootIsArray {
		t.Errorf("Parse() ir.RootIsArray = true, want false for an object")
	}

	expectedRoot := models.JSONObject{
		{Key: "name", Value: "John Doe"},
		{Key: "age", Value: json.Number("30")},
		{Key: "isStudent", Value: false},
		{Key: "city", Value: nil},
	}

	actualRoot, ok := ir.Root.(models.JSONObject)
	if !ok {
		t.Fatalf("Parse() root is not a models.JSONObject, got %T", ir.Root)
	}
	if !reflect.DeepEqual(actualRoot, expectedRoot) {
		t.Errorf("Parse() root = %v, want %v", actualRoot, expectedRoot)
	}
}

func TestParse_KeepsKeyOrder(t *testing.T) {
	ir, err := Parse(strings.NewReader(`{"zeta": 1, "alpha": 2, "10": 3, "mid": 4}`))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	keys := ir.Root.(models.JSONObject).Keys()
	want := []string{"zeta", "alpha", "10", "mid"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Parse() keys = %v, want %v", keys, want)
	}
}

func TestParse_DuplicateKeyLastWins(t *testing.T) {
	ir, err := Parse(strings.NewReader(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONObject{
		{Key: "a", Value: json.Number("3")},
		{Key: "b", Value: json.Number("2")},
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("Parse() root = %v, want %v", ir.Root, expectedRoot)
	}
}

func TestParse_SimpleArray(t *testing.T) {
	ir, err := Parse(strings.NewReader(`[1, "test", true, null, 3.14]`))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	if !ir.RootIsArray {
		t.Errorf("Parse() ir.RootIsArray = false, want true for an array")
	}

	expectedRoot := models.JSONArray{
		json.Number("1"),
		"test",
		true,
		nil,
		json.Number("3.14"),
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("Parse() root = %v, want %v", ir.Root, expectedRoot)
	}
}

func TestParse_NestedObject(t *testing.T) {
	jsonStr := `{"user": {"name": "Jane Doe", "id": 123}, "active": true, "tags": ["go", "json"], "empty": {}, "none": []}`
	ir, err := Parse(strings.NewReader(jsonStr))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONObject{
		{Key: "user", Value: models.JSONObject{
			{Key: "name", Value: "Jane Doe"},
			{Key: "id", Value: json.Number("123")},
		}},
		{Key: "active", Value: true},
		{Key: "tags", Value: models.JSONArray{"go", "json"}},
		{Key: "empty", Value: models.JSONObject{}},
		{Key: "none", Value: models.JSONArray{}},
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("Parse() root = %#v, want %#v", ir.Root, expectedRoot)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := Parse(strings.NewReader(input))
		if err == nil {
			t.Fatalf("Parse(%q) err = nil, want error", input)
		}
		if !stderrors.Is(err, errors.ErrEmptyInput) {
			t.Errorf("Parse(%q) err = %v, want ErrEmptyInput", input, err)
		}
		if !errors.IsInvalidJSON(err) {
			t.Errorf("Parse(%q) err = %v, want an InvalidJson error", input, err)
		}
	}
}

func TestParseString_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   "} {
		_, err := ParseString(input)
		if err == nil {
			t.Fatalf("ParseString(%q) err = nil, want error", input)
		}
		if !errors.IsInvalidJSON(err) {
			t.Errorf("ParseString(%q) err = %v, want an InvalidJson error", input, err)
		}
		if !strings.Contains(err.Error(), "input string is empty") {
			t.Errorf("ParseString(%q) err = %v, want error containing 'input string is empty'", input, err)
		}
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	testCases := []struct {
		name    string
		jsonStr string
		message string
	}{
		{"MissingBrace", `{"name": "John Doe", "age": 30`, "unexpected end of JSON input"},
		{"MissingBracket", `["item1", "item2",`, "unexpected end of JSON input"},
		{"TrailingComma", `{"a": 1,}`, "JSON syntax error"},
		{"MissingColon", `{"a" 1}`, "JSON syntax error"},
		{"BareWord", `hello`, "JSON syntax error"},
		{"SingleQuotes", `{'a': 1}`, "JSON syntax error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.jsonStr)
			if err == nil {
				t.Fatalf("ParseString() with malformed JSON, err = nil, want error")
			}
			if !errors.IsInvalidJSON(err) {
				t.Errorf("ParseString() err = %v, want an InvalidJson error", err)
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("ParseString() err = %v, want error containing %q", err, tc.message)
			}
		})
	}
}

func TestParse_MultipleValues(t *testing.T) {
	_, err := ParseString(`{"a": 1} {"b": 2}`)
	if !stderrors.Is(err, errors.ErrMultipleJSON) {
		t.Errorf("ParseString() err = %v, want ErrMultipleJSON", err)
	}
	if !errors.IsInvalidJSON(err) {
		t.Errorf("ParseString() err = %v, want an InvalidJson error", err)
	}

	if _, err := ParseString("{\"a\": 1}\n\n  "); err != nil {
		t.Errorf("ParseString() with trailing whitespace, err = %v, want nil", err)
	}
}

func TestParseFile_SimpleObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.json")
	if err := os.WriteFile(path, []byte(`{"product": "Laptop", "price": 1200.50}`), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	ir, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v, wantErr nil", err)
	}

	expectedRoot := models.JSONObject{
		{Key: "product", Value: "Laptop"},
		{Key: "price", Value: json.Number("1200.50")},
	}
	if !reflect.DeepEqual(ir.Root, expectedRoot) {
		t.Errorf("ParseFile() root = %v, want %v", ir.Root, expectedRoot)
	}
}

func TestParseFile_NonExistentFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nonexistentfile.json"))
	if !stderrors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("ParseFile() with non-existent file, err = %v, want ErrFileNotFound", err)
	}
}

func TestParseFile_EmptyPath(t *testing.T) {
	_, err := ParseFile("")
	if !stderrors.Is(err, errors.ErrInvalidFilePath) {
		t.Errorf("ParseFile() with empty path, err = %v, want ErrInvalidFilePath", err)
	}
}

func TestParseFile_EmptyFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	_, err := ParseFile(path)
	if !stderrors.Is(err, errors.ErrFileEmpty) {
		t.Errorf("ParseFile() with empty file content, err = %v, want ErrFileEmpty", err)
	}
}

func TestParse_RootPrimitives(t *testing.T) {
	testCases := []struct {
		name        string
		jsonStr     string
		expectedVal interface{}
	}{
		{"RootString", `"hello world"`, "hello world"},
		{"RootNumber", `123.45`, json.Number("123.45")},
		{"RootExponent", `1e21`, json.Number("1e21")},
		{"RootBooleanTrue", `true`, true},
		{"RootBooleanFalse", `false`, false},
		{"RootNull", `null`, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ir, err := Parse(strings.NewReader(tc.jsonStr))
			if err != nil {
				t.Fatalf("Parse() error = %v, wantErr nil for %s", err, tc.name)
			}

			if ir.RootIsArray {
				t.Errorf("Parse() ir.RootIsArray = true, want false for %s", tc.name)
			}

			if !reflect.DeepEqual(ir.Root, tc.expectedVal) {
				t.Errorf("Parse() root = %#v (type %T), want %#v (type %T) for %s", ir.Root, ir.Root, tc.expectedVal, tc.expectedVal, tc.name)
			}
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat(`{"a":`, n) + "1" + strings.Repeat("}", n)
	}

	if _, err := ParseString(nested(3), WithMaxDepth(3)); err != nil {
		t.Errorf("ParseString() at the depth limit, err = %v, want nil", err)
	}

	_, err := ParseString(nested(4), WithMaxDepth(3))
	if !stderrors.Is(err, errors.ErrDepthExceeded) {
		t.Fatalf("ParseString() beyond the depth limit, err = %v, want ErrDepthExceeded", err)
	}
	if errors.IsInvalidJSON(err) {
		t.Errorf("ParseString() beyond the depth limit reported InvalidJson: %v", err)
	}
}

func TestParse_DeepInputIsCapped(t *testing.T) {
	depth := 3_000_000
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)

	testCases := []struct {
		name string
		opts []Option
	}{
		{"Default", nil},
		{"Configured", []Option{WithMaxDepth(1000)}},
		{"AboveHardCap", []Option{WithMaxDepth(depth)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(input, tc.opts...)
			if !stderrors.Is(err, errors.ErrDepthExceeded) {
				t.Errorf("ParseString() with %d nested arrays, err = %v, want ErrDepthExceeded", depth, err)
			}
		})
	}
}

func TestParse_HardCapAllowsDeepValidInput(t *testing.T) {
	input := strings.Repeat("[", MaxNestingDepth) + strings.Repeat("]", MaxNestingDepth)

	ir, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString() with %d nested arrays, err = %v, want nil", MaxNestingDepth, err)
	}
	if !ir.RootIsArray {
		t.Errorf("ParseString() ir.RootIsArray = false, want true")
	}
}
