package vnpay

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// VNPAY CONFIGURATION
// =====================================================

type Config struct {
	PayURL     string // Payment page URL (e.g. .../paymentv2/vpcpay.html)
	ReturnURL  string // Frontend callback URL
	TmnCode    string // Merchant code (provided by VNPay)
	HashSecret string // Secret key for HMAC-SHA512 signature
	APIURL     string // Refund API URL (merchant_webapi/api/transaction)
	Version    string // VNPay API version (default: "2.1.0")
	OrderType  string // Order classification (default: "other")
	Locale     string // Language (default: "vn")
	CurrCode   string // Currency code (default: "VND")
	BankCode   string // Optional fixed bank selection
}

// NewConfig creates VNPay configuration with provider defaults
func NewConfig(payURL, returnURL, tmnCode, hashSecret, apiURL string) *Config {
	return &Config{
		PayURL:     payURL,
		ReturnURL:  returnURL,
		TmnCode:    tmnCode,
		HashSecret: hashSecret,
		APIURL:     apiURL,
		Version:    DefaultVersion,
		OrderType:  DefaultOrderType,
		Locale:     DefaultLocale,
		CurrCode:   DefaultCurrCode,
	}
}

// Validate validates configuration
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PayURL, validation.Required, is.URL),
		validation.Field(&c.ReturnURL, validation.Required, is.URL),
		validation.Field(&c.TmnCode, validation.Required),
		validation.Field(&c.HashSecret, validation.Required),
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.OrderType, validation.Required),
	)
}

// =====================================================
// VNPAY CONSTANTS
// =====================================================

const (
	MethodName = "vnpay"

	DefaultVersion   = "2.1.0"
	DefaultOrderType = "other"
	DefaultLocale    = "vn"
	DefaultCurrCode  = "VND"

	// PaymentExpiry is how long the redirect stays payable
	PaymentExpiry = 15 * time.Minute
)

// Location is the provider's reference timezone (UTC+7)
var Location = time.FixedZone("GMT+7", 7*60*60)

const (
	// Response codes
	ResponseCodeSuccess                = "00"
	ResponseCodeInvalidMerchant        = "02"
	ResponseCodeInvalidFormat          = "03"
	ResponseCodeFullRefundNotAllowed   = "04"
	ResponseCodeSuspectedFraud         = "07"
	ResponseCodeNotRegistered          = "09"
	ResponseCodeAuthFailed             = "10"
	ResponseCodeTimeout                = "11"
	ResponseCodeCardLocked             = "12"
	ResponseCodeIncorrectOTP           = "13"
	ResponseCodeUserCancelled          = "24"
	ResponseCodeInsufficientBalance    = "51"
	ResponseCodeLimitExceeded          = "65"
	ResponseCodeBankMaintenance        = "75"
	ResponseCodePasswordRetries        = "79"
	ResponseCodeTransactionNotFound    = "91"
	ResponseCodeInvalidRefundAmount    = "93"
	ResponseCodeRefundAlreadyRequested = "94"
	ResponseCodeRefundDeclined         = "95"
	ResponseCodeInvalidChecksum        = "97"
	ResponseCodeOther                  = "99"
)

var responseMessages = map[string]string{
	ResponseCodeSuccess:                "Giao dịch thành công",
	ResponseCodeInvalidMerchant:        "Mã định danh kết nối không hợp lệ",
	ResponseCodeInvalidFormat:          "Dữ liệu gửi sang không đúng định dạng",
	ResponseCodeFullRefundNotAllowed:   "Không cho phép hoàn trả toàn phần sau khi đã hoàn trả một phần",
	ResponseCodeSuspectedFraud:         "Trừ tiền thành công, giao dịch bị nghi ngờ",
	ResponseCodeNotRegistered:          "Thẻ/Tài khoản chưa đăng ký InternetBanking",
	ResponseCodeAuthFailed:             "Xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	ResponseCodeTimeout:                "Giao dịch hết hạn (timeout)",
	ResponseCodeCardLocked:             "Thẻ/Tài khoản bị khóa",
	ResponseCodeIncorrectOTP:           "OTP không chính xác",
	ResponseCodeUserCancelled:          "Người dùng hủy giao dịch",
	ResponseCodeInsufficientBalance:    "Số dư tài khoản không đủ",
	ResponseCodeLimitExceeded:          "Vượt quá hạn mức giao dịch trong ngày",
	ResponseCodeBankMaintenance:        "Ngân hàng đang bảo trì",
	ResponseCodePasswordRetries:        "Nhập sai mật khẩu thanh toán quá số lần quy định",
	ResponseCodeTransactionNotFound:    "Không tìm thấy giao dịch yêu cầu hoàn trả",
	ResponseCodeInvalidRefundAmount:    "Số tiền hoàn trả không hợp lệ",
	ResponseCodeRefundAlreadyRequested: "Giao dịch đã được gửi yêu cầu hoàn tiền trước đó",
	ResponseCodeRefundDeclined:         "Giao dịch không thành công bên VNPAY, từ chối xử lý",
	ResponseCodeInvalidChecksum:        "Checksum không hợp lệ",
	ResponseCodeOther:                  "Lỗi khác",
}

// ResponseMessage returns the Vietnamese message for a response code
func ResponseMessage(code string) string {
	if msg, exists := responseMessages[code]; exists {
		return msg
	}
	return "Lỗi không xác định"
}
