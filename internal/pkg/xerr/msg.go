package xerr

import "errors"

var (
	// 通用错误
	ErrInternalServer = errors.New("服务器内部错误")

	// 客户端请求错误
	ErrInvalidParams         = errors.New("无效的请求参数")
	ErrInvalidShareType      = errors.New("分享类型必须是 user 或 contact")
	ErrInvalidItemType       = errors.New("条目类型必须是 file 或 folder")
	ErrJustificationRequired = errors.New("绕过合规拦截时必须填写理由")
	ErrNotContactShare       = errors.New("该操作仅支持联系人分享")
	ErrShareLinkMissing      = errors.New("分享记录缺少外链令牌")
	ErrContactNoEmail        = errors.New("联系人没有邮箱地址，无法发送通知")
	ErrInvalidDateRange      = errors.New("报告开始时间必须早于结束时间")
	ErrNoFolderTargets       = errors.New("没有可生成目录的部门或用户")

	// 认证与授权错误
	ErrUnauthorized       = errors.New("用户未授权")
	ErrTokenInvalid       = errors.New("认证 Token 无效或已过期")
	ErrInvalidCredentials = errors.New("用户名或密码不正确")
	ErrUserAlreadyExists  = errors.New("该用户名已被注册")
	ErrEmailAlreadyExists = errors.New("邮箱已被注册")

	// 权限错误
	ErrForbidden        = errors.New("禁止访问")
	ErrPermissionDenied = errors.New("您没有操作此资源的权限")
	ErrRoleRequired     = errors.New("该操作需要 manager 或 admin 角色")
	ErrGdprBlocked      = errors.New("分享操作被 GDPR 合规检查拦截")

	// 缓存错误
	ErrEmptyCache = errors.New("缓存为空")

	// 资源未找到错误
	ErrUserNotFound    = errors.New("用户不存在")
	ErrContactNotFound = errors.New("联系人不存在")
	ErrShareNotFound   = errors.New("分享记录不存在或已失效")
	ErrReportNotFound  = errors.New("合规报告不存在")
	ErrCdnPathNotFound = errors.New("CDN 路径不存在")
	ErrCompanyNotFound = errors.New("公司不存在")

	// 数据库与外部服务错误
	ErrDatabaseError     = errors.New("数据库操作失败")
	ErrStorageError      = errors.New("CDN 存储服务操作失败")
	ErrStorageKeyMissing = errors.New("CDN 存储密钥未配置")
	ErrSmtpError         = errors.New("邮件发送失败")
	ErrErpError          = errors.New("ERP 接口调用失败")
	ErrSearchError       = errors.New("审计检索服务失败")
)
