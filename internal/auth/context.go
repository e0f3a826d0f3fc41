package auth

import "context"

type contextKey string

const operatorKey contextKey = "operator"

// WithOperator returns ctx carrying the signed-in operator name
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey, operator)
}

// OperatorFrom extracts the operator name, "" when the request is anonymous
func OperatorFrom(ctx context.Context) string {
	op, _ := ctx.Value(operatorKey).(string)
	return op
}
