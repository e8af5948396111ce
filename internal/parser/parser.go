package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/mcncl/json2xml/internal/errors"
	"github.com/mcncl/json2xml/internal/models"
)

// MaxNestingDepth caps object/array nesting when no smaller limit is set.
const MaxNestingDepth = 10000

// Option configures parsing.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth limits how deeply objects and arrays may nest. Zero or a value
// above MaxNestingDepth means MaxNestingDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 && depth < MaxNestingDepth {
			o.maxDepth = depth
		}
	}
}

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation.
// Object members keep their source order. Nesting deeper than the configured
// limit fails with errors.ErrDepthExceeded before the rest of the input is read.
func Parse(reader io.Reader, opts ...Option) (models.IntermediateRepresentation, error) {
	o := options{maxDepth: MaxNestingDepth}
	for _, opt := range opts {
		opt(&o)
	}

	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Numbers keep their literal text

	rootValue, err := decodeValue(decoder, 0, o.maxDepth)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return models.IntermediateRepresentation{}, err
		}
		if stderrors.Is(err, io.EOF) {
			// Nothing but whitespace before the end of the stream
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, wrapDecodeError(err)
	}

	// Anything other than EOF after the first value is trailing data
	_, err = decoder.Token()
	switch {
	case err == nil:
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	case !stderrors.Is(err, io.EOF):
		return models.IntermediateRepresentation{}, wrapDecodeError(err)
	}

	_, isArray := rootValue.(models.JSONArray)
	return models.IntermediateRepresentation{
		Root:        rootValue,
		RootIsArray: isArray,
	}, nil
}

// decodeValue reads one complete JSON value from the token stream. depth is the
// number of containers already open around it.
func decodeValue(decoder *json.Decoder, depth, maxDepth int) (models.JSONValue, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}
	if depth >= maxDepth {
		return nil, errors.NewSerializeError(
			fmt.Sprintf("JSON nesting deeper than %d levels", maxDepth),
			errors.ErrDepthExceeded,
		)
	}

	switch delim {
	case '{':
		obj := models.JSONObject{}
		index := make(map[string]int)
		for decoder.More() {
			keyTok, err := decoder.Token()
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
			}
			value, err := decodeValue(decoder, depth+1, maxDepth)
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			// Last duplicate wins, first position is kept
			if i, seen := index[key]; seen {
				obj[i].Value = value
				continue
			}
			index[key] = len(obj)
			obj = append(obj, models.JSONMember{Key: key, Value: value})
		}
		if _, err := decoder.Token(); err != nil {
			return nil, unexpectedEOF(err)
		}
		return obj, nil
	case '[':
		arr := models.JSONArray{}
		for decoder.More() {
			value, err := decodeValue(decoder, depth+1, maxDepth)
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			arr = append(arr, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, unexpectedEOF(err)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// unexpectedEOF turns an EOF inside a container into io.ErrUnexpectedEOF so it
// is not mistaken for empty input.
func unexpectedEOF(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// wrapDecodeError classifies a decoder failure as an InvalidJson parsing error
// carrying the decoder's own message.
func wrapDecodeError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(err.Error(), errors.ErrInvalidJSON)
}

// ParseString parses JSON from a string
func ParseString(jsonString string, opts ...Option) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewParsingError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString), opts...)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string, opts ...Option) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file, opts...)
}
