package languages

import (
	"path/filepath"
	"sort"
	"strings"
)

// LanguageDescriptor 用于对外展示语言及后缀信息。
type LanguageDescriptor struct {
	Name       string
	Marker     string
	Extensions []string
}

// Registry 管理语言定义注册与后缀映射。
type Registry struct {
	languages     []*Language
	languageByExt map[string]*Language
}

// NewRegistry 创建并注册所有内置语言。
func NewRegistry() *Registry {
	return NewRegistryWith(Python(), JavaScript())
}

// NewRegistryWith 使用指定语言集合创建注册中心，后注册的语言覆盖同名后缀。
func NewRegistryWith(languages ...*Language) *Registry {
	registry := &Registry{
		languages:     languages,
		languageByExt: make(map[string]*Language),
	}

	for _, language := range languages {
		for _, ext := range language.Extensions {
			registry.languageByExt[strings.ToLower(ext)] = language
		}
	}

	return registry
}

// LanguageForFile 根据文件后缀查找语言定义。
func (r *Registry) LanguageForFile(path string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	language, ok := r.languageByExt[ext]
	return language, ok
}

// Lookup 按名称查找语言，忽略大小写。
func (r *Registry) Lookup(name string) (*Language, bool) {
	for _, language := range r.languages {
		if strings.EqualFold(language.Name, name) {
			return language, true
		}
	}
	return nil, false
}

// Languages 返回已注册语言清单。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.languages))
	for _, language := range r.languages {
		extensions := append([]string(nil), language.Extensions...)
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			Name:       language.Name,
			Marker:     language.LineMarker,
			Extensions: extensions,
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// ExtensionsForLanguage 返回指定语言对应的全部后缀。
func (r *Registry) ExtensionsForLanguage(name string) []string {
	language, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	extensions := append([]string(nil), language.Extensions...)
	sort.Strings(extensions)
	return extensions
}
