// Package scanner 提供文件级与目录级的注释分类汇总能力。
// 该层负责文件读取、目录遍历、任务分发、并发执行和结果聚合，不负责解析判定细节。
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"commentscan/internal/classify"
	"commentscan/internal/extract"
	"commentscan/internal/languages"
	"commentscan/internal/logging"
	"commentscan/internal/model"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrEmptyPath 表示未提供扫描路径。
	ErrEmptyPath = errors.New("scan path is empty")
	// ErrDirectoryNotFound 表示扫描根路径不存在，整次扫描直接终止。
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrUnsupportedFile 表示单文件模式下文件后缀未注册。
	ErrUnsupportedFile = errors.New("unsupported file extension")
)

// DefaultExcludeDirs 是默认跳过的目录名。
var DefaultExcludeDirs = []string{".git", ".hg", ".svn", "__pycache__", "node_modules", ".venv", ".tox"}

// Options 配置扫描服务。
type Options struct {
	Workers     int
	Overlap     extract.Overlap
	ExcludeDirs []string
	Logger      *slog.Logger
}

// Service 是扫描服务对象。
type Service struct {
	registry    *languages.Registry
	judge       classify.Judge
	workers     int
	overlap     extract.Overlap
	excludeDirs map[string]struct{}
	logger      *slog.Logger
}

// scanTask 表示一个待分析文件任务。
type scanTask struct {
	absolutePath string
	displayPath  string
	language     *languages.Language
}

// workerResult 表示 worker 的执行产物。
type workerResult struct {
	fileTally *model.FileTally
	scanError *model.ScanError
}

// NewService 创建扫描服务。
func NewService(registry *languages.Registry, judge classify.Judge, options Options) *Service {
	workers := options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	overlap := options.Overlap
	if overlap == "" {
		overlap = extract.OverlapIndependent
	}

	excludeDirs := options.ExcludeDirs
	if excludeDirs == nil {
		excludeDirs = DefaultExcludeDirs
	}
	excluded := make(map[string]struct{}, len(excludeDirs))
	for _, name := range excludeDirs {
		excluded[name] = struct{}{}
	}

	logger := options.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	return &Service{
		registry:    registry,
		judge:       judge,
		workers:     workers,
		overlap:     overlap,
		excludeDirs: excluded,
		logger:      logger,
	}
}

// TallyFile 统计单个文件。文件读取使用宽松解码，非法字节会被替换而不是报错。
func (s *Service) TallyFile(path string) (model.FileTally, error) {
	language, ok := s.registry.LanguageForFile(path)
	if !ok {
		return model.FileTally{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}

	text, err := readSource(path)
	if err != nil {
		return model.FileTally{}, err
	}

	tally := s.tallyText(text, language)
	tally.Path = path
	return tally, nil
}

// tallyText 对已解码文本执行提取、分类与汇总。
func (s *Service) tallyText(text string, language *languages.Language) model.FileTally {
	units := extract.Extract(languages.SplitLines(text), language, s.overlap)
	summary := classify.New(s.judge, language).File(units)

	return model.FileTally{
		Language: language.Name,
		Tally:    summary.Tally,
		Blocks:   summary.Blocks,
		Regions:  summary.Regions,
		Excluded: summary.Excluded,
	}
}

// ScanPath 扫描目录或单文件。
// 根路径不存在时直接返回 ErrDirectoryNotFound；单个文件失败只记录错误，不中断扫描。
func (s *Service) ScanPath(targetPath string) (model.ScanResult, error) {
	var result model.ScanResult

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, ErrEmptyPath
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w: %s", ErrDirectoryNotFound, absoluteTarget)
		}
		return result, fmt.Errorf("stat path: %w", err)
	}

	result.ScannedPath = absoluteTarget

	tasks := make(chan scanTask, s.workers*4)
	results := make(chan workerResult, s.workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			s.runWorker(tasks, results)
		}()
	}

	go func() {
		defer close(tasks)
		if info.IsDir() {
			walkErrChan <- s.enqueueDirectoryTasks(absoluteTarget, tasks, results)
			return
		}
		walkErrChan <- s.enqueueSingleFileTask(absoluteTarget, tasks)
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	result.Files = make([]model.FileTally, 0)
	result.Errors = make([]model.ScanError, 0)

	for item := range results {
		if item.fileTally != nil {
			result.Files = append(result.Files, *item.fileTally)
		}
		if item.scanError != nil {
			result.Errors = append(result.Errors, *item.scanError)
		}
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return result, walkErr
	}

	s.buildSummaries(&result)
	s.logger.Info("scan finished",
		"path", result.ScannedPath,
		"files", result.Total.Files,
		"flagged", len(result.Flagged),
		"errors", len(result.Errors),
	)
	return result, nil
}

// enqueueDirectoryTasks 遍历目录并把可识别语言文件推入任务队列。
// 子路径的遍历错误只记录诊断信息，遍历继续进行。
func (s *Service) enqueueDirectoryTasks(root string, tasks chan<- scanTask, results chan<- workerResult) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			s.logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			results <- workerResult{
				scanError: &model.ScanError{
					Path:  s.displayPath(root, path),
					Error: walkErr.Error(),
				},
			}
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if _, skip := s.excludeDirs[entry.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		language, ok := s.registry.LanguageForFile(path)
		if !ok {
			return nil
		}

		tasks <- scanTask{
			absolutePath: path,
			displayPath:  s.displayPath(root, path),
			language:     language,
		}
		return nil
	})
}

// enqueueSingleFileTask 在用户给定单文件路径时创建任务。
func (s *Service) enqueueSingleFileTask(filePath string, tasks chan<- scanTask) error {
	language, ok := s.registry.LanguageForFile(filePath)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(filePath))
	}

	tasks <- scanTask{
		absolutePath: filePath,
		displayPath:  filepath.Base(filePath),
		language:     language,
	}
	return nil
}

// displayPath 返回相对扫描根目录的展示路径。
func (s *Service) displayPath(root string, path string) string {
	relativePath, err := filepath.Rel(root, path)
	if err != nil {
		relativePath = path
	}
	return filepath.ToSlash(relativePath)
}

// runWorker 执行文件读取和注释分类。每个文件独立计算，互不共享可变状态。
func (s *Service) runWorker(tasks <-chan scanTask, results chan<- workerResult) {
	for task := range tasks {
		text, readErr := readSource(task.absolutePath)
		if readErr != nil {
			s.logger.Warn("skipping file", "path", task.displayPath, "error", readErr)
			results <- workerResult{
				scanError: &model.ScanError{
					Path:  task.displayPath,
					Error: readErr.Error(),
				},
			}
			continue
		}

		tally := s.tallyText(text, task.language)
		tally.Path = task.displayPath
		if tally.Excluded > 0 {
			s.logger.Debug("excluded comment units", "path", task.displayPath, "units", tally.Excluded)
		}

		results <- workerResult{fileTally: &tally}
	}
}

// buildSummaries 计算语言级汇总、总计信息和被标记文件列表。
func (s *Service) buildSummaries(result *model.ScanResult) {
	sort.Slice(result.Files, func(i int, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	byLanguage := make(map[string]*model.LanguageTally)
	result.Total = model.TreeTally{}
	result.Flagged = make([]string, 0)

	for _, item := range result.Files {
		result.Total.AddFileTally(item.Tally)
		if item.Flagged() {
			result.Flagged = append(result.Flagged, item.Path)
		}

		summary, ok := byLanguage[item.Language]
		if !ok {
			summary = &model.LanguageTally{
				Language:   item.Language,
				Extensions: s.registry.ExtensionsForLanguage(item.Language),
			}
			byLanguage[item.Language] = summary
		}

		summary.Files++
		summary.Tally.Add(item.Tally)
	}

	result.Languages = make([]model.LanguageTally, 0, len(byLanguage))
	for _, item := range byLanguage {
		result.Languages = append(result.Languages, *item)
	}

	sort.Slice(result.Languages, func(i int, j int) bool {
		return result.Languages[i].Language < result.Languages[j].Language
	})
}

// readSource 读取文件并宽松解码：识别 BOM，非法 UTF-8 字节替换为 U+FFFD。
func readSource(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, content)
	if err != nil {
		// 解码失败时退回原始字节，保证单个文件不会因编码问题中断。
		return string(content), nil
	}
	return string(decoded), nil
}
