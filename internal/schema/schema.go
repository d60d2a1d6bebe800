// internal/schema/schema.go
package schema

// Type JSON 值类型
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema 与提供商无关的响应结构声明
// google 提供者转换为 genai.Schema，openai 兼容提供者使用 JSONSchema()
type Schema struct {
	Name        string             `json:"name,omitempty"`
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Order       []string           `json:"order,omitempty"` // 属性输出顺序
	Required    []string           `json:"required,omitempty"`
}

// IsArray 顶层是否为数组
func (s *Schema) IsArray() bool {
	return s != nil && s.Type == TypeArray
}

// JSONSchema 转换为严格模式的 JSON Schema
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}

	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		enum := make([]string, len(s.Enum))
		copy(enum, s.Enum)
		out["enum"] = enum
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}

	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for _, name := range s.propertyNames() {
			props[name] = s.Properties[name].JSONSchema()
		}
		out["properties"] = props
		out["additionalProperties"] = false

		required := make([]string, len(s.Required))
		copy(required, s.Required)
		out["required"] = required
	}

	return out
}

// propertyNames 按 Order 返回属性名，未列出的属性追加在后
func (s *Schema) propertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.Order {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	for name := range s.Properties {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// PropertyNames 属性名（有序）
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	return s.propertyNames()
}
