package workbook

import "github.com/iota-uz/herdbook/pkg/serrors"

var (
	ErrUnreadableWorkbook = serrors.NewError("UNREADABLE_WORKBOOK", "workbook could not be read", "Herd.Errors.UnreadableWorkbook")
	ErrUnsupportedFormat  = serrors.NewError("UNSUPPORTED_FORMAT", "unsupported workbook format", "Herd.Errors.UnsupportedFormat")
)
