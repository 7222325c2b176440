package bq

import "cloud.google.com/go/bigquery"

var (
	ProtoFieldNameForTest = protoFieldName
	ProtoJSONForTest      = protoJSON
)

// EncodeRowForTest encodes one record with the schema the same way Insert does.
func EncodeRowForTest(schema bigquery.Schema, record any) ([]byte, error) {
	enc, err := newRowEncoder(schema)
	if err != nil {
		return nil, err
	}
	return enc.encode(record)
}
