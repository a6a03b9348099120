package shared

// messages 错误提示文案
var messages = map[string]string{
	"error.unauthorized":           "unauthorized",
	"error.jwt_secret_missing":     "jwt secret is not configured",
	"error.auth_header_missing":    "missing authorization header",
	"error.auth_header_invalid":    "authorization header must be Bearer token",
	"error.token_invalid":          "invalid or expired token",
	"error.rate_limited":           "too many requests, retry in %d seconds",
	"error.rate_limit_unavailable": "rate limiter unavailable",
	"error.forbidden":              "forbidden",
	"error.bad_request":            "invalid request",
	"error.user_id_invalid":        "invalid user id",
	"error.user_id_type_invalid":   "invalid user id type",
	"error.user_not_found":         "user not found",
	"error.product_not_found":      "product not found",
	"error.shop_not_found":         "shop not found",
	"error.shop_name_exists":       "shop name already exists",
	"error.shop_forbidden":         "shop belongs to another user",
	"error.shop_owner_not_seller":  "only shop users can own a shop",
	"error.shop_invalid":           "invalid shop",
	"error.shop_feed_missing":      "shop has no feed location",
	"error.shop_create_failed":     "failed to create shop",
	"error.shop_update_failed":     "failed to update shop",
	"error.shop_fetch_failed":      "failed to load shop",
	"error.sync_request_failed":    "failed to request catalog sync",
	"error.sync_run_not_found":     "no finished sync run",
	"error.sync_fetch_failed":      "failed to load sync runs",
	"error.order_not_found":        "order not found",
	"error.order_line_not_found":   "order line not found",
	"error.order_fetch_failed":     "failed to load order",
	"error.order_update_failed":    "failed to update order",
	"error.quantity_invalid":       "quantity must stay positive",
	"error.product_fetch_failed":   "failed to load products",
	"error.store_unavailable":      "storage temporarily unavailable, retry later",
	"error.internal":               "internal error",
}

// Message 按 key 获取提示文案，未知 key 原样返回
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
