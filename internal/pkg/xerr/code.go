package xerr

// 定义了统一的业务错误码
const (
	SuccessCode = 20000 // 通用成功码

	// --- 客户端请求错误系列 (400xx) ---
	InvalidParamsCode         = 40000 // 无效的请求参数
	ValidationFailedCode      = 40001 // 参数验证失败
	InvalidShareTypeCode      = 40002 // 无效的分享类型
	InvalidItemTypeCode       = 40003 // 无效的条目类型
	JustificationRequiredCode = 40004 // 确认绕过合规拦截时必须填写理由
	NotContactShareCode       = 40005 // 操作仅支持联系人分享
	ShareLinkMissingCode      = 40006 // 分享记录缺少外链令牌
	ContactNoEmailCode        = 40007 // 联系人没有邮箱地址
	InvalidDateRangeCode      = 40008 // 无效的报告日期范围
	NoFolderTargetsCode       = 40009 // 没有可生成目录的部门或用户

	// --- 认证与授权错误系列 (401xx) ---
	UnauthorizedCode       = 40100 // 通用未授权
	TokenInvalidCode       = 40101 // Token 无效或过期
	InvalidCredentialsCode = 40102 // 用户名或密码错误

	// --- 权限错误系列 (403xx) ---
	ForbiddenCode        = 40300 // 通用无权限
	PermissionDeniedCode = 40301 // 权限不足 (细分)
	RoleRequiredCode     = 40302 // 需要更高角色 (manager/admin)
	GdprBlockedCode      = 40303 // GDPR 合规拦截，需要用户确认后才能继续

	// --- 资源未找到错误系列 (404xx) ---
	NotFoundCode         = 40400 // 通用资源未找到
	UserNotFoundCode     = 40401 // 用户不存在
	ContactNotFoundCode  = 40402 // 联系人不存在
	ShareNotFoundCode    = 40403 // 分享记录不存在
	ReportNotFoundCode   = 40404 // 合规报告不存在
	CdnPathNotFoundCode  = 40405 // CDN 路径不存在
	CompanyNotFoundCode  = 40406 // 公司不存在

	// --- 业务逻辑冲突系列 (409xx) ---
	UserAlreadyExistsCode  = 40900 // 用户名已存在
	EmailAlreadyExistsCode = 40901 // 邮箱已存在

	// --- 部分成功 (207) ---
	PartialSuccessCode = 20700 // 批量操作部分成功

	// --- 服务器内部错误系列 (500xx) ---
	InternalServerErrorCode = 50000 // 服务器内部通用错误
	DatabaseErrorCode       = 50001 // 数据库操作失败
	StorageErrorCode        = 50002 // CDN 存储服务操作失败
	SmtpErrorCode           = 50003 // 邮件发送失败
	ErpErrorCode            = 50004 // ERP 接口调用失败
	SearchErrorCode         = 50005 // 审计检索服务失败
	StorageKeyMissingCode   = 50006 // CDN 存储密钥未配置
)
