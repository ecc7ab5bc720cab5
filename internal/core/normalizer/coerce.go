package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// getFloat64Ptr - число из JSON-числа, json.Number или числовой строки ("1,200" тоже).
func getFloat64Ptr(value interface{}) *float64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func getIntPtr(value interface{}) *int {
	f := getFloat64Ptr(value)
	if f == nil || *f > math.MaxInt32 || *f < math.MinInt32 {
		return nil
	}
	i := int(*f)
	return &i
}

// getIDPtr возвращает положительный идентификатор; 0 и мусор считаются отсутствием.
func getIDPtr(value interface{}) *int64 {
	f := getFloat64Ptr(value)
	if f == nil || *f <= 0 || *f > math.MaxInt64/2 {
		return nil
	}
	id := int64(*f)
	return &id
}

// getString приводит скаляры к строке: этаж может прийти числом 2, а не "2".
func getString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// isTruthy: true, ненулевое число, строки true/1/yes/y/on.
func isTruthy(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y", "on":
			return true
		}
		return false
	default:
		f := getFloat64Ptr(v)
		return f != nil && *f != 0
	}
}

// decodeIfString разбирает JSON-строку. ok == false, если это строка, которую
// не удалось распарсить.
func decodeIfString(value interface{}) (decoded interface{}, ok bool) {
	s, isString := value.(string)
	if !isString {
		return value, true
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, false
	}
	return out, true
}

// getMediaSlice: строка - это JSON; невалидный JSON - это одна ссылка целиком;
// не-массив - пустой список. Объекты {url} разворачиваются, пустые значения выкидываются.
func getMediaSlice(value interface{}) []string {
	result := []string{}
	if value == nil {
		return result
	}
	decoded, ok := decodeIfString(value)
	if !ok {
		if s := strings.TrimSpace(value.(string)); s != "" {
			result = append(result, s)
		}
		return result
	}

	for _, item := range asSlice(decoded) {
		var url string
		switch v := item.(type) {
		case string:
			url = v
		case map[string]interface{}:
			url, _ = v["url"].(string)
		}
		if url = strings.TrimSpace(url); url != "" {
			result = append(result, url)
		}
	}
	return result
}

// getLabelSlice - то же для удобств, но невалидный JSON дает пустой список.
func getLabelSlice(value interface{}) []string {
	result := []string{}
	decoded, ok := decodeIfString(value)
	if !ok {
		return result
	}
	for _, item := range asSlice(decoded) {
		var label string
		switch v := item.(type) {
		case string:
			label = v
		case map[string]interface{}:
			label = firstString(v, "name", "label")
		}
		if label = strings.TrimSpace(label); label != "" {
			result = append(result, label)
		}
	}
	return result
}

func asSlice(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(getString(m[key])); s != "" {
			return s
		}
	}
	return ""
}
