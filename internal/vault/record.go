package vault

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/record.json
var recordSchemaJSON string

var recordSchema = mustSchema(recordSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("vault: invalid embedded schema: %v", err))
	}
	return s
}

// stored is the result of decoding a record file: either a current envelope
// or a legacy blob that still has to be opened with a password.
type stored interface {
	format() string
}

type currentEnvelope struct {
	record *RecordFile
}

type legacyBlob struct {
	token []byte
}

func (currentEnvelope) format() string { return "current" }
func (legacyBlob) format() string      { return "legacy" }

// decodeRecord resolves the record file format once. JSON documents must
// satisfy the record schema; anything else is treated as a legacy blob.
func decodeRecord(raw []byte) (stored, error) {
	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return legacyBlob{token: trimmed}, nil
	}

	if err := validateRecord(trimmed); err != nil {
		return nil, err
	}

	var rec RecordFile
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCorruptFile, err)
	}
	if rec.Entries == nil {
		rec.Entries = []Entry{}
	}
	return currentEnvelope{record: &rec}, nil
}

func validateRecord(doc []byte) error {
	res, err := recordSchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrCorruptFile, err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return fmt.Errorf("%w: %s", common.ErrCorruptFile, strings.Join(msgs, "; "))
}

func encodeRecord(rec *RecordFile) ([]byte, error) {
	if rec.Entries == nil {
		rec.Entries = []Entry{}
	}
	return json.MarshalIndent(rec, "", "  ")
}
