package executor

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/value"
)

// Row is one result row keyed by column name. Text returned as []byte is
// converted to string.
type Row map[string]any

// scanMaps scans every row into a Row.
func scanMaps(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// scanRows scans multiple rows into a slice
func scanRows(rows *sql.Rows, dest any) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	if sliceValue.Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	elemType := sliceValue.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}

	for rows.Next() {
		element := reflect.New(elemType)
		if err := scanRowIntoStruct(rows, columns, element.Interface()); err != nil {
			return err
		}
		if isPtr {
			sliceValue = reflect.Append(sliceValue, element)
		} else {
			sliceValue = reflect.Append(sliceValue, element.Elem())
		}
	}

	destValue.Elem().Set(sliceValue)
	return rows.Err()
}

// scanRowIntoStruct scans the current row into a struct
func scanRowIntoStruct(rows *sql.Rows, columns []string, dest any) error {
	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	if err := rows.Scan(valuePtrs...); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return mapValuesToStruct(columns, values, dest)
}

// columnName returns the column a struct field maps to, or "" for db:"-".
func columnName(field reflect.StructField) string {
	tag := field.Tag.Get("db")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return toSnakeCase(field.Name)
}

// mapValuesToStruct maps database values to struct fields
func mapValuesToStruct(columns []string, values []any, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct, got %T", dest)
	}
	v = v.Elem()

	t := v.Type()
	columnMap := make(map[string]int, len(columns))
	for i, col := range columns {
		columnMap[strings.ToLower(col)] = i
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		name := columnName(field)
		if name == "" {
			continue
		}
		colIndex, ok := columnMap[strings.ToLower(name)]
		if !ok {
			continue
		}

		if err := setFieldValue(fieldValue, values[colIndex]); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// setFieldValue sets a struct field value from a database value
func setFieldValue(fieldValue reflect.Value, raw any) error {
	fieldType := fieldValue.Type()

	if raw == nil {
		fieldValue.Set(reflect.Zero(fieldType))
		return nil
	}

	if fieldType.Kind() == reflect.Ptr {
		elemValue := reflect.New(fieldType.Elem()).Elem()
		if err := setFieldValue(elemValue, raw); err != nil {
			return err
		}
		fieldValue.Set(elemValue.Addr())
		return nil
	}

	// Drivers return text as []byte on some backends.
	if b, ok := raw.([]byte); ok && fieldType.Kind() != reflect.Slice {
		return setFromText(fieldValue, string(b))
	}

	rawValue := reflect.ValueOf(raw)
	rawType := rawValue.Type()
	if rawType.AssignableTo(fieldType) {
		fieldValue.Set(rawValue)
		return nil
	}

	// int64 converts to string as a rune, which is never wanted here.
	if fieldType.Kind() == reflect.String && rawType.Kind() != reflect.String {
		return fmt.Errorf("cannot convert %s to %s", rawType, fieldType)
	}
	if fieldType.Kind() == reflect.Bool {
		if n, ok := toInt64(raw); ok {
			fieldValue.SetBool(n != 0)
			return nil
		}
	}

	if rawType.ConvertibleTo(fieldType) {
		fieldValue.Set(rawValue.Convert(fieldType))
		return nil
	}

	return fmt.Errorf("cannot convert %s to %s", rawType, fieldType)
}

func setFromText(fieldValue reflect.Value, s string) error {
	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		fieldValue.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		fieldValue.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		fieldValue.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fieldValue.SetBool(b)
	default:
		return fmt.Errorf("cannot convert text to %s", fieldValue.Type())
	}
	return nil
}

// extractInsertData turns the exported fields of a struct into assignments.
// Nil pointers are skipped so the column default applies.
func extractInsertData(data any) ([]ast.Assignment, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("data must be a struct, got %T", data)
	}

	t := v.Type()
	var fields []ast.Assignment
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)
		if !field.IsExported() {
			continue
		}

		name := columnName(field)
		if name == "" {
			continue
		}
		if fieldValue.Kind() == reflect.Ptr {
			if fieldValue.IsNil() {
				continue
			}
			fieldValue = fieldValue.Elem()
		}

		val, err := value.Of(fieldValue.Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		fields = append(fields, ast.Set(name, val))
	}
	return fields, nil
}

// toSnakeCase converts PascalCase to snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}
