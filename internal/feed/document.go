package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Document 供应商数据源的内存结构
type Document struct {
	Shop       string     `yaml:"shop"`
	Categories []Category `yaml:"categories" validate:"dive"`
	Goods      []Good     `yaml:"goods" validate:"dive"`
}

// Category 数据源中的分类记录
type Category struct {
	ID   uint   `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required,max=100"`
}

// Good 数据源中的商品记录，一条记录对应本店铺的一个报价
type Good struct {
	ID         uint                  `yaml:"id" validate:"required"`
	Model      string                `yaml:"model" validate:"required,max=100"`
	CategoryID uint                  `yaml:"category"`
	Name       string                `yaml:"name" validate:"required,max=200"`
	Quantity   int                   `yaml:"quantity" validate:"gte=0"`
	Price      Amount                `yaml:"price" validate:"gte=0"`
	PriceRRC   Amount                `yaml:"price_rrc" validate:"gte=0"`
	Parameters map[string]ParamValue `yaml:"parameters"`
}

// ParameterNames 返回按名称排序的参数名
func (g Good) ParameterNames() []string {
	names := make([]string, 0, len(g.Parameters))
	for name := range g.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Amount 金额，按文本解析避免浮点误差
type Amount struct {
	decimal.Decimal
}

// NewAmount 由整数金额创建
func NewAmount(v int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(v)}
}

// ParseAmount 由文本创建金额
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

// UnmarshalYAML 只接受标量数字
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &fieldError{line: node.Line, msg: "amount must be a number"}
	}
	parsed, err := ParseAmount(node.Value)
	if err != nil {
		return &fieldError{line: node.Line, msg: "invalid amount " + strconv.Quote(node.Value)}
	}
	*a = parsed
	return nil
}

// ParamValue 参数值，保留原始标量文本（如 6.5、2688x1242）
type ParamValue string

// UnmarshalYAML 只接受标量，null 值按空文本处理
func (p *ParamValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &fieldError{line: node.Line, msg: "parameter value must be a scalar"}
	}
	*p = ParamValue(node.Value)
	return nil
}

// String 返回参数文本
func (p ParamValue) String() string {
	return string(p)
}

type fieldError struct {
	line int
	msg  string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

// Decode 解析 YAML（兼容 JSON）数据源并校验结构
func Decode(raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, malformed("empty document")
	}
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed("empty document")
		}
		return nil, malformed("%v", err)
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
