package oracle

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"commentscan/internal/languages"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/zeebo/blake3"
)

// 默认限制。超过限制的片段按资源耗尽处理。
const (
	DefaultMaxSnippetBytes = 64 * 1024
	DefaultMaxDepth        = 1000
	DefaultCacheSize       = 4096
)

// Options 配置解析判定的资源上限与缓存。
type Options struct {
	// MaxSnippetBytes 为 0 表示不限制片段大小。
	MaxSnippetBytes int
	// MaxDepth 为 0 表示不限制语法树深度。
	MaxDepth int
	// ParseTimeout 为 0 表示不设置解析超时。
	ParseTimeout time.Duration
	// CacheSize 为 0 表示关闭判定缓存。
	CacheSize int
}

// DefaultOptions 返回默认配置。
func DefaultOptions() Options {
	return Options{
		MaxSnippetBytes: DefaultMaxSnippetBytes,
		MaxDepth:        DefaultMaxDepth,
		CacheSize:       DefaultCacheSize,
	}
}

// CacheStats 记录缓存命中情况。
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Oracle 是可并发使用的解析判定器。
// tree-sitter 解析器本身不是并发安全的，因此通过对象池按需复用。
type Oracle struct {
	opts    Options
	parsers sync.Pool
	cache   *lru.Cache[[32]byte, Verdict]

	hits   atomic.Int64
	misses atomic.Int64
}

// New 创建判定器。
func New(opts Options) (*Oracle, error) {
	o := &Oracle{opts: opts}
	o.parsers.New = func() any {
		return sitter.NewParser()
	}

	if opts.CacheSize > 0 {
		cache, err := lru.New[[32]byte, Verdict](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		o.cache = cache
	}
	return o, nil
}

// Classify 判定一段文本在指定语言下的代码特征。
// 任何解析异常都会被收敛为 ResourceExhausted，不会向上抛出。
func (o *Oracle) Classify(lang *languages.Language, text string) Verdict {
	if o.opts.MaxSnippetBytes > 0 && len(text) > o.opts.MaxSnippetBytes {
		return ResourceExhausted
	}

	// 片段前追加中性声明行，首行是否为编码声明不影响解析结果。
	source := []byte(lang.Prelude + "\n" + text)

	if o.cache == nil {
		return o.parse(lang, source)
	}

	key := cacheKey(lang, source)
	if verdict, ok := o.cache.Get(key); ok {
		o.hits.Add(1)
		return verdict
	}
	o.misses.Add(1)

	verdict := o.parse(lang, source)
	o.cache.Add(key, verdict)
	return verdict
}

// Stats 返回缓存命中统计。
func (o *Oracle) Stats() CacheStats {
	return CacheStats{
		Hits:   o.hits.Load(),
		Misses: o.misses.Load(),
	}
}

// parse 执行一次完整解析并检查语法树。
func (o *Oracle) parse(lang *languages.Language, source []byte) (verdict Verdict) {
	parser := o.parsers.Get().(*sitter.Parser)
	healthy := false
	defer func() {
		if recovered := recover(); recovered != nil {
			verdict = ResourceExhausted
			healthy = false
		}
		// 中断或异常后的解析器状态不可信，直接释放，不放回对象池。
		if healthy {
			o.parsers.Put(parser)
		} else {
			parser.Close()
		}
	}()

	parser.SetLanguage(lang.Grammar())

	ctx := context.Background()
	if o.opts.ParseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.ParseTimeout)
		defer cancel()
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil || tree == nil {
		return ResourceExhausted
	}
	defer tree.Close()
	healthy = true

	root := tree.RootNode()
	if root == nil {
		return ResourceExhausted
	}
	if root.HasError() {
		return SyntaxInvalid
	}
	return o.inspect(lang, root)
}

// frame 是遍历语法树时的栈帧。
type frame struct {
	node  *sitter.Node
	depth int
}

// inspect 遍历全部命名节点。
// 深度检查优先于代码判定，因此即使已经发现实质性节点也会走完整棵树。
// 语法树不含错误节点但目标语言会拒绝的结构（如空语句体）按 SyntaxInvalid 处理。
func (o *Oracle) inspect(lang *languages.Language, root *sitter.Node) Verdict {
	substantive := false
	invalid := false
	stack := []frame{{node: root, depth: 1}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if o.opts.MaxDepth > 0 && current.depth > o.opts.MaxDepth {
			return ResourceExhausted
		}

		if !invalid && lang.IsInvalid(current.node) {
			invalid = true
		}
		if !substantive && !lang.IsTrivial(current.node) {
			substantive = true
		}

		count := int(current.node.NamedChildCount())
		for i := 0; i < count; i++ {
			child := current.node.NamedChild(i)
			if child == nil {
				continue
			}
			stack = append(stack, frame{node: child, depth: current.depth + 1})
		}
	}

	if invalid {
		return SyntaxInvalid
	}
	if substantive {
		return SubstantiveCode
	}
	return NoCode
}

// cacheKey 以语言名和完整源码计算 BLAKE3 摘要。
func cacheKey(lang *languages.Language, source []byte) [32]byte {
	hasher := blake3.New()
	_, _ = hasher.Write([]byte(lang.Name))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write(source)

	var key [32]byte
	copy(key[:], hasher.Sum(nil))
	return key
}
