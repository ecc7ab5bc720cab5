package domain

import (
	"bytes"
	"encoding/json"
)

// RawPropertyInput - "сырой" объект в том виде, в каком его присылает сервер:
// поля в camelCase или snake_case, булевы флаги в разных написаниях,
// фото иногда приходят JSON-строкой. Дальше нормализатора этот тип не уходит.
type RawPropertyInput map[string]interface{}

// ParseRawPropertyInput разбирает JSON-объект. Никогда не возвращает ошибку:
// невалидный JSON или не-объект дают пустой ввод.
func ParseRawPropertyInput(data []byte) RawPropertyInput {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return RawPropertyInput{}
	}
	return RawPropertyInput(raw)
}

// ParseRawPropertyList разбирает JSON-массив объектов, отбрасывая элементы,
// которые не являются объектами. Обертка вида {"data": [...]} тоже принимается.
func ParseRawPropertyList(data []byte) []RawPropertyInput {
	var items []interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		wrapped := ParseRawPropertyInput(data)
		inner, ok := wrapped["data"].([]interface{})
		if !ok {
			return []RawPropertyInput{}
		}
		items = inner
	}

	result := make([]RawPropertyInput, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			result = append(result, RawPropertyInput(obj))
		}
	}
	return result
}

// Lookup returns the first present, non-nil value among keys.
func (r RawPropertyInput) Lookup(keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// First is Lookup without the presence flag.
func (r RawPropertyInput) First(keys ...string) interface{} {
	v, _ := r.Lookup(keys...)
	return v
}
