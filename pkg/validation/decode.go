package validation

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/scrypster/strata/internal/coerce"
)

var jsonNumberType = reflect.TypeOf(json.Number(""))

// jsonNumberHook turns json.Number into int for integer targets and float64
// otherwise. Integers that do not fit an int are an error rather than a
// wrapped value.
func jsonNumberHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from != jsonNumberType {
		return data, nil
	}
	num := data.(json.Number)
	for to.Kind() == reflect.Ptr {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _, integral := coerce.Integer(num)
		if !integral {
			return nil, fmt.Errorf("%s is not an integer in int range", num)
		}
		return n, nil
	}
	return num.Float64()
}

// decode copies an accepted record into its typed form.
func decode(record map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		DecodeHook: jsonNumberHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(record)
}
