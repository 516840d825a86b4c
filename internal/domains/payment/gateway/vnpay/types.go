package vnpay

// =====================================================
// VNPAY FIELD NAMES
// =====================================================

const (
	FieldVersion           = "vnp_Version"
	FieldCommand           = "vnp_Command"
	FieldTmnCode           = "vnp_TmnCode"
	FieldAmount            = "vnp_Amount"
	FieldBankCode          = "vnp_BankCode"
	FieldCurrCode          = "vnp_CurrCode"
	FieldIPAddr            = "vnp_IpAddr"
	FieldLocale            = "vnp_Locale"
	FieldOrderInfo         = "vnp_OrderInfo"
	FieldOrderType         = "vnp_OrderType"
	FieldReturnURL         = "vnp_ReturnUrl"
	FieldCreateDate        = "vnp_CreateDate"
	FieldExpireDate        = "vnp_ExpireDate"
	FieldTxnRef            = "vnp_TxnRef"
	FieldRequestID         = "vnp_RequestId"
	FieldTransactionType   = "vnp_TransactionType"
	FieldTransactionNo     = "vnp_TransactionNo"
	FieldTransactionDate   = "vnp_TransactionDate"
	FieldCreateBy          = "vnp_CreateBy"
	FieldSecureHash        = "vnp_SecureHash"
	FieldSecureHashType    = "vnp_SecureHashType"
	FieldResponseID        = "vnp_ResponseId"
	FieldResponseCode      = "vnp_ResponseCode"
	FieldMessage           = "vnp_Message"
	FieldPayDate           = "vnp_PayDate"
	FieldTransactionStatus = "vnp_TransactionStatus"
	FieldPromotionCode     = "vnp_PromotionCode"
	FieldPromotionAmount   = "vnp_PromotionAmount"
)

const (
	CommandPay     = "pay"
	CommandRefund  = "refund"
	CommandQueryDR = "querydr"

	// TransactionTypeRefund marks a full/partial refund request
	TransactionTypeRefund = "02"

	// DateLayout is the provider's yyyyMMddHHmmss timestamp format
	DateLayout = "20060102150405"
)

// =====================================================
// REFUND API RESPONSE
// =====================================================

// RefundResponse is the raw refund API reply. Every field is optional.
// It never leaves the adapter.
type RefundResponse struct {
	ResponseID        string `json:"vnp_ResponseId"`
	Command           string `json:"vnp_Command"`
	TmnCode           string `json:"vnp_TmnCode"`
	TxnRef            string `json:"vnp_TxnRef"`
	Amount            string `json:"vnp_Amount"`
	OrderInfo         string `json:"vnp_OrderInfo"`
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	BankCode          string `json:"vnp_BankCode"`
	PayDate           string `json:"vnp_PayDate"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionType   string `json:"vnp_TransactionType"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
	SecureHash        string `json:"vnp_SecureHash"`
}

// SignedParams returns the signed reply fields in the provider's
// checksum order, excluding vnp_SecureHash.
func (r *RefundResponse) SignedParams() *Params {
	p := NewParams()
	p.Set(FieldResponseID, r.ResponseID)
	p.Set(FieldCommand, r.Command)
	p.Set(FieldResponseCode, r.ResponseCode)
	p.Set(FieldMessage, r.Message)
	p.Set(FieldTmnCode, r.TmnCode)
	p.Set(FieldTxnRef, r.TxnRef)
	p.Set(FieldAmount, r.Amount)
	p.Set(FieldBankCode, r.BankCode)
	p.Set(FieldPayDate, r.PayDate)
	p.Set(FieldTransactionNo, r.TransactionNo)
	p.Set(FieldTransactionType, r.TransactionType)
	p.Set(FieldTransactionStatus, r.TransactionStatus)
	p.Set(FieldOrderInfo, r.OrderInfo)
	return p
}

// VerifyRefundResponse checks the reply's own signature
func VerifyRefundResponse(hashSecret string, r *RefundResponse) bool {
	return verifyReply(hashSecret, r.SignedParams(), r.SecureHash)
}

// =====================================================
// QUERYDR API RESPONSE
// =====================================================

// QueryResponse is the raw querydr reply: the refund reply fields plus
// the promotion pair, which the provider signs last.
type QueryResponse struct {
	RefundResponse
	PromotionCode   string `json:"vnp_PromotionCode"`
	PromotionAmount string `json:"vnp_PromotionAmount"`
}

// SignedParams returns the signed querydr reply fields in checksum order
func (r *QueryResponse) SignedParams() *Params {
	p := r.RefundResponse.SignedParams()
	p.Set(FieldPromotionCode, r.PromotionCode)
	p.Set(FieldPromotionAmount, r.PromotionAmount)
	return p
}

// VerifyQueryResponse checks the querydr reply's own signature
func VerifyQueryResponse(hashSecret string, r *QueryResponse) bool {
	return verifyReply(hashSecret, r.SignedParams(), r.SecureHash)
}

func verifyReply(hashSecret string, signed *Params, secureHash string) bool {
	return Verify(hashSecret, PipeString(signed), secureHash)
}
