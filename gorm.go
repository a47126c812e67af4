package encryptedfield

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"gorm.io/gorm/schema"
)

// GORMSerializer adapts a column type to GORM's serializer protocol, whose
// Value/Scan hooks are the bind-time and result-time hook points this package
// implements. Register it under a name and tag model fields with it:
//
//	col, _ := registry.EncryptedColumn("default", encryptedfield.WithCodec(encryptedfield.StringCodec))
//	encryptedfield.RegisterGORMSerializer("encrypted", col)
//
//	type User struct {
//	    ID    uint
//	    Email string `gorm:"serializer:encrypted;type:blob"`
//	}
//
// One registered serializer carries one column binding (keyset, kind, codec,
// context); register a serializer per binding.
//
// col must be an *EncryptedColumn or a *DeterministicColumn; the adapter
// needs their shared pipeline, not just the ColumnType hooks, and panics for
// any other implementation.
func GORMSerializer(col ColumnType) schema.SerializerInterface {
	return gormColumn{base: baseColumn(col)}
}

// GORMSerializerWithFieldContext is GORMSerializer with the associated-data
// context derived from each field's "table.column" identity instead of the
// binding's configured context. Ciphertext written for one field then fails
// decryption if substituted into another, even under the same keyset and the
// same registered serializer.
//
// Rows written this way can only be read back through the same adapter; the
// plain Result hook does not know the field identity.
//
// As with GORMSerializer, col must be one of this package's column types.
func GORMSerializerWithFieldContext(col ColumnType) schema.SerializerInterface {
	return gormColumn{base: baseColumn(col), fieldContext: true}
}

// RegisterGORMSerializer registers the column under the given serializer name
// for use in `gorm:"serializer:<name>"` field tags.
func RegisterGORMSerializer(name string, col ColumnType) {
	schema.RegisterSerializer(name, GORMSerializer(col))
}

type gormColumn struct {
	base         *column
	fieldContext bool
}

var _ schema.SerializerInterface = gormColumn{}

// baseColumn unwraps the shared pipeline from either column type.
func baseColumn(col ColumnType) *column {
	switch c := col.(type) {
	case *EncryptedColumn:
		return c.column
	case *DeterministicColumn:
		return c.column
	default:
		panic(fmt.Sprintf("encryptedfield: unsupported ColumnType %T", col))
	}
}

func (s gormColumn) aad(field *schema.Field) []byte {
	if s.fieldContext && field != nil && field.Schema != nil {
		return []byte(field.Schema.Table + "." + field.DBName)
	}
	return s.base.context
}

// Value implements the bind-time hook: logical field value to storage value.
func (s gormColumn) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	return s.base.bind(fieldValue, s.aad(field))
}

// Scan implements the result-time hook: storage value to logical field value.
func (s gormColumn) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	fieldValue := reflect.New(field.FieldType)

	if dbValue != nil {
		plaintext, wasNull, err := s.base.open(dbValue, s.aad(field))
		if err != nil {
			return err
		}
		if !wasNull {
			switch s.base.codec.(type) {
			case jsonCodec:
				// Decode straight into the destination type rather than the
				// generic JSON shapes.
				if err := json.Unmarshal(plaintext, fieldValue.Interface()); err != nil {
					return fmt.Errorf("%w: %v", ErrCodec, err)
				}
			default:
				v, err := s.base.codec.Decode(plaintext)
				if err != nil {
					return err
				}
				return field.Set(ctx, dst, v)
			}
		}
	}

	field.ReflectValueOf(ctx, dst).Set(fieldValue.Elem())
	return nil
}
