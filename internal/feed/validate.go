package feed

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// amountScale 金额保留的小数位数，与 decimal(20,2) 列一致
const amountScale = 2

var (
	validateOnce sync.Once
	docValidator *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if amount, ok := field.Interface().(Amount); ok {
				return amount.InexactFloat64()
			}
			return nil
		}, Amount{})
		docValidator = v
	})
	return docValidator
}

// Validate 校验数据源结构，失败返回带字段路径的 ErrMalformedDocument
func Validate(doc *Document) error {
	if doc == nil {
		return malformed("empty document")
	}
	if err := getValidator().Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return malformed("%s: failed %s", fieldPath(first.Namespace()), describeTag(first))
		}
		return malformed("%v", err)
	}
	for i, good := range doc.Goods {
		if !hasAmountScale(good.Price) {
			return malformed("goods[%d].price: more than %d decimal places", i, amountScale)
		}
		if !hasAmountScale(good.PriceRRC) {
			return malformed("goods[%d].price_rrc: more than %d decimal places", i, amountScale)
		}
		for name := range good.Parameters {
			if strings.TrimSpace(name) == "" {
				return malformed("goods[%d].parameters: empty parameter name", i)
			}
			if len(name) > 100 {
				return malformed("goods[%d].parameters.%s: name too long", i, name)
			}
		}
	}
	return nil
}

// hasAmountScale 金额按 amountScale 舍入后不变，1.50 与 1.500 合法，1.005 不合法
func hasAmountScale(a Amount) bool {
	return a.Decimal.Equal(a.Decimal.Round(amountScale))
}

func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}
