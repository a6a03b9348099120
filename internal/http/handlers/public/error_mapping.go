package public

import (
	"errors"

	"github.com/orders-next/internal/http/response"
	"github.com/orders-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var storeErrorRules = []mappedHandlerError{
	{target: service.ErrStoreUnavailable, code: response.CodeServiceUnavailable, key: "error.store_unavailable"},
}

var orderLineErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrOrderLineNotFound, code: response.CodeNotFound, key: "error.order_line_not_found"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrShopNotFound, code: response.CodeNotFound, key: "error.shop_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrUserNotFound, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

var shopErrorRules = []mappedHandlerError{
	{target: service.ErrShopNotFound, code: response.CodeNotFound, key: "error.shop_not_found"},
	{target: service.ErrShopForbidden, code: response.CodeForbidden, key: "error.shop_forbidden"},
	{target: service.ErrShopNameExists, code: response.CodeConflict, key: "error.shop_name_exists"},
	{target: service.ErrShopOwnerNotSeller, code: response.CodeForbidden, key: "error.shop_owner_not_seller"},
	{target: service.ErrShopInvalid, code: response.CodeBadRequest, key: "error.shop_invalid"},
	{target: service.ErrShopFeedMissing, code: response.CodeBadRequest, key: "error.shop_feed_missing"},
	{target: service.ErrUserNotFound, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

var syncRunErrorRules = []mappedHandlerError{
	{target: service.ErrSyncRunNotFound, code: response.CodeNotFound, key: "error.sync_run_not_found"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

func respondOrderLineError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderLineErrorRules, storeErrorRules), response.CodeInternal, "error.order_update_failed")
}

func respondOrderFetchError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderLineErrorRules, shopErrorRules, storeErrorRules), response.CodeInternal, "error.order_fetch_failed")
}

func respondShopError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(shopErrorRules, storeErrorRules), response.CodeInternal, fallbackKey)
}

func respondSyncRunError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(shopErrorRules, syncRunErrorRules, storeErrorRules), response.CodeInternal, "error.sync_fetch_failed")
}

func respondProductError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(productErrorRules, storeErrorRules), response.CodeInternal, "error.product_fetch_failed")
}
