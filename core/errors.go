package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型，带错误代码（Code）与模块（Module）
//   - 核心的错误永远不以失败态暴露给调用方：最坏结果是"个性化程度
//     更低的排序"（见各模块的降级语义）
//
// 降级约定：
//   - DATA_UNAVAILABLE：目录/评价数据为空 → 返回空结果，不抛给上层
//   - PROFILE_CORRUPT：持久化档案解析失败 → 按全新档案处理，记日志
//   - 除零等退化计算不是错误：用文档化的中性默认值（0.5 或 0）化解
type DomainError struct {
	Code    string // 错误代码，如 "NOT_FOUND"、"DATA_UNAVAILABLE"
	Message string
	Module  string // 模块名称，如 "store"、"outcome"
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"         // 资源不存在
	ErrorCodeNotSupported    = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeDataUnavailable = "DATA_UNAVAILABLE"  // 目录/评价数据不可用
	ErrorCodeProfileCorrupt  = "PROFILE_CORRUPT"   // 档案解析失败
	ErrorCodeInvalidInput    = "INVALID_INPUT"     // 输入无效
	ErrorCodeInternalError   = "INTERNAL_ERROR"    // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleBehavior  = "behavior"
	ModuleOutcome   = "outcome"
	ModuleRecommend = "recommend"
	ModuleConfig    = "config"
)

func codeIs(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return codeIs(err, ErrorCodeNotFound) }

// IsDataUnavailable 检查错误是否为 DATA_UNAVAILABLE。
func IsDataUnavailable(err error) bool { return codeIs(err, ErrorCodeDataUnavailable) }

// IsProfileCorrupt 检查错误是否为 PROFILE_CORRUPT。
func IsProfileCorrupt(err error) bool { return codeIs(err, ErrorCodeProfileCorrupt) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool { return codeIs(err, ErrorCodeInvalidInput) }
