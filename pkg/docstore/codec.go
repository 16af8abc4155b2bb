package docstore

import (
	"encoding/json"
	"fmt"

	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

// keyField is the JSON name records use for their key. It is stripped
// on encode and injected on decode so the stored body never duplicates
// the document key.
const keyField = "id"

// Codec converts between typed records and raw documents via their
// JSON representation.
type Codec[T Record[T]] struct{}

// Encode flattens the record into a document body and lifts the key
// out of it.
func (Codec[T]) Encode(rec T) (Document, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return Document{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding record")
	}

	body := make(map[string]any)
	if err := json.Unmarshal(raw, &body); err != nil {
		return Document{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding record body")
	}
	delete(body, keyField)

	return Document{Key: rec.DocumentKey(), Body: body}, nil
}

// Decode rebuilds a typed record from the document body and stamps the
// document key onto it. Unknown body fields are dropped; missing ones
// take their zero value.
func (Codec[T]) Decode(doc Document) (T, error) {
	var rec T

	raw, err := json.Marshal(doc.Body)
	if err != nil {
		return rec, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding document body")
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("decoding document %q", doc.Key))
	}

	return rec.WithDocumentKey(doc.Key), nil
}
