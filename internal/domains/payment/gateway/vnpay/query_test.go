package vnpay

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-gateway/internal/domains/payment/gateway"
)

func queryRequest() gateway.QueryRequest {
	return gateway.QueryRequest{
		TransactionID:       "0123456789abcdef0123456789abcdef",
		TransactionDatetime: "20240115100000",
		IPAddress:           "10.0.0.5",
	}
}

func signedQueryReply(code string) QueryResponse {
	r := QueryResponse{
		RefundResponse: RefundResponse{
			ResponseID:        "resp-q1",
			Command:           CommandQueryDR,
			TmnCode:           "TMN00001",
			TxnRef:            "0123456789abcdef0123456789abcdef",
			Amount:            "1050",
			OrderInfo:         "Pay for order 3f2504e04f8911d39a0c0305e82c3301",
			ResponseCode:      code,
			Message:           "QueryDR Success",
			BankCode:          "NCB",
			PayDate:           "20240115100512",
			TransactionNo:     "14226112",
			TransactionType:   "01",
			TransactionStatus: "00",
		},
		PromotionCode:   "SUMMER",
		PromotionAmount: "500",
	}
	r.SecureHash = Sign(testSecret, PipeString(r.SignedParams()))
	return r
}

func queryReplyWith(r QueryResponse, captured *map[string]string) gateway.Transport {
	return transportFunc(func(_ context.Context, _ string, body interface{}, out interface{}) error {
		if captured != nil {
			*captured = body.(map[string]string)
		}
		*out.(*QueryResponse) = r
		return nil
	})
}

func TestClient_QueryTransaction_RequestBody(t *testing.T) {
	now := time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC)
	var body map[string]string

	c := newTestClient(t, queryReplyWith(signedQueryReply("00"), &body),
		WithClock(fixedClock(now)),
		WithRefGenerator(fixedRef("fedcba9876543210fedcba9876543210")),
	)

	_, err := c.QueryTransaction(context.Background(), queryRequest())
	require.NoError(t, err)

	assert.Equal(t, "querydr", body[FieldCommand])
	assert.Equal(t, "20240115100000", body[FieldTransactionDate])
	assert.Equal(t, "20240116090000", body[FieldCreateDate])
	assert.Equal(t, "Query transaction 0123456789abcdef0123456789abcdef", body[FieldOrderInfo])
	assert.NotContains(t, body, FieldAmount)

	expected := strings.Join([]string{
		"fedcba9876543210fedcba9876543210",
		"2.1.0",
		"querydr",
		"TMN00001",
		"0123456789abcdef0123456789abcdef",
		"20240115100000",
		"20240116090000",
		"10.0.0.5",
		"Query transaction 0123456789abcdef0123456789abcdef",
	}, "|")
	assert.Equal(t, Sign(testSecret, expected), body[FieldSecureHash])
}

func TestClient_QueryTransaction_Outcomes(t *testing.T) {
	t.Run("verified reply", func(t *testing.T) {
		c := newTestClient(t, queryReplyWith(signedQueryReply("00"), nil))

		resp, err := c.QueryTransaction(context.Background(), queryRequest())
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "14226112", resp.TransactionNo)
		assert.Equal(t, "00", resp.TransactionStatus)
		assert.Equal(t, "01", resp.TransactionType)
		assert.Equal(t, "1050", resp.Amount)
		assert.Equal(t, gateway.FailureReasonNone, resp.FailureReason)
	})

	t.Run("tampered reply raises integrity error", func(t *testing.T) {
		reply := signedQueryReply("00")
		reply.TransactionStatus = "02"

		c := newTestClient(t, queryReplyWith(reply, nil))

		resp, err := c.QueryTransaction(context.Background(), queryRequest())
		assert.Nil(t, resp)

		var integrityErr *gateway.IntegrityError
		require.ErrorAs(t, err, &integrityErr)
		assert.True(t, errors.Is(err, gateway.ErrIntegrityViolation))
	})

	t.Run("promotion fields are signed", func(t *testing.T) {
		reply := signedQueryReply("00")
		reply.PromotionAmount = "0"

		c := newTestClient(t, queryReplyWith(reply, nil))

		_, err := c.QueryTransaction(context.Background(), queryRequest())
		assert.ErrorIs(t, err, gateway.ErrIntegrityViolation)
	})

	t.Run("rejection skips verification", func(t *testing.T) {
		reply := signedQueryReply("91")
		reply.SecureHash = "garbage"

		c := newTestClient(t, queryReplyWith(reply, nil))

		resp, err := c.QueryTransaction(context.Background(), queryRequest())
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "91", resp.ResponseCode)
		assert.Equal(t, gateway.FailureReasonProviderRejected, resp.FailureReason)
	})

	t.Run("transport failure is reported, not raised", func(t *testing.T) {
		c := newTestClient(t, transportFunc(func(context.Context, string, interface{}, interface{}) error {
			return errors.New("connection reset")
		}))

		resp, err := c.QueryTransaction(context.Background(), queryRequest())
		require.NoError(t, err)
		assert.True(t, resp.TransportFailed())
		assert.ErrorIs(t, resp.Err, gateway.ErrTransport)
	})
}

func TestQueryResponse_DecodesFlatJSON(t *testing.T) {
	raw := `{"vnp_ResponseId":"r1","vnp_ResponseCode":"00","vnp_TxnRef":"ref","vnp_PromotionCode":"P1"}`

	var r QueryResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "r1", r.ResponseID)
	assert.Equal(t, "ref", r.TxnRef)
	assert.Equal(t, "P1", r.PromotionCode)
	assert.Equal(t, []string{
		FieldResponseID, FieldCommand, FieldResponseCode, FieldMessage, FieldTmnCode,
		FieldTxnRef, FieldAmount, FieldBankCode, FieldPayDate, FieldTransactionNo,
		FieldTransactionType, FieldTransactionStatus, FieldOrderInfo,
		FieldPromotionCode, FieldPromotionAmount,
	}, r.SignedParams().Keys())
}
