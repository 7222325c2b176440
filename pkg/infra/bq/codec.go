package bq

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/bigquery/storage/managedwriter/adapt"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// rowEncoder converts JSON-serializable records into serialized proto rows of one table schema.
type rowEncoder struct {
	descriptor      protoreflect.MessageDescriptor
	descriptorProto *descriptorpb.DescriptorProto
}

func newRowEncoder(schema bigquery.Schema) (*rowEncoder, error) {
	storageSchema, err := adapt.BQSchemaToStorageTableSchema(schema)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to convert schema")
	}

	descriptor, err := adapt.StorageSchemaToProto2Descriptor(storageSchema, "root")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to convert schema to descriptor")
	}
	messageDescriptor, ok := descriptor.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, goerr.New("adapted descriptor is not a message descriptor")
	}

	descriptorProto, err := adapt.NormalizeDescriptor(messageDescriptor)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to normalize descriptor")
	}

	return &rowEncoder{
		descriptor:      messageDescriptor,
		descriptorProto: descriptorProto,
	}, nil
}

// encode marshals record to JSON, then into a proto message of the schema.
func (x *rowEncoder) encode(record any) ([]byte, error) {
	raw, err := protoJSON(record)
	if err != nil {
		return nil, err
	}

	message := dynamicpb.NewMessage(x.descriptor)
	if err := protojson.Unmarshal(raw, message); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal record into proto message", goerr.V("raw", string(raw)))
	}

	b, err := proto.Marshal(message)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal proto message")
	}
	return b, nil
}

// protoJSON returns the JSON form of record with every object key renamed to a valid proto field
// name.
func protoJSON(record any) ([]byte, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal record", goerr.V("record", record))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, goerr.Wrap(err, "failed to decode record JSON")
	}

	out, err := json.Marshal(renameKeys(data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal renamed record")
	}
	return out, nil
}

func renameKeys(v any) any {
	switch node := v.(type) {
	case map[string]any:
		renamed := make(map[string]any, len(node))
		for key, value := range node {
			renamed[protoFieldName(key)] = renameKeys(value)
		}
		return renamed
	case []any:
		for i := range node {
			node[i] = renameKeys(node[i])
		}
		return node
	}
	return v
}

// protoFieldName keeps valid names and maps others to "col_" plus their base64 form without
// padding, with "+" and "/" replaced by "_".
func protoFieldName(name string) string {
	if protoreflect.Name(name).IsValid() {
		return name
	}
	encoded := base64.RawStdEncoding.EncodeToString([]byte(name))
	return "col_" + strings.NewReplacer("+", "_", "/", "_").Replace(encoded)
}
