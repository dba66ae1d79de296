package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	sentinel := New(KindSequence, "NoEntry", "没有入场记录")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"直接哨兵", sentinel, KindSequence},
		{"包装哨兵", fmt.Errorf("ctx: %w", sentinel), KindSequence},
		{"范围错误", &OutOfRangeError{RadiusMeters: 100}, KindOutOfRange},
		{"重复错误", &DuplicateEventError{Type: "ENTRY", Next: "EXIT"}, KindDuplicateEvent},
		{"存储冲突", fmt.Errorf("insert: %w", ErrUniqueViolation), KindStorageConflict},
		{"普通错误", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("期望 %s，实际: %s", tt.want, got)
			}
		})
	}
}

func TestContextErrors_Unwrap(t *testing.T) {
	var err error = &OutOfRangeError{RadiusMeters: 150, DistanceMeters: 300}
	if !errors.Is(err, ErrOutOfRange) {
		t.Error("OutOfRangeError 应展开为 ErrOutOfRange")
	}
	var oor *OutOfRangeError
	if !errors.As(fmt.Errorf("wrap: %w", err), &oor) || oor.RadiusMeters != 150 {
		t.Error("应能取回允许半径")
	}

	err = &DuplicateEventError{Type: "ENTRY", Next: "EXIT"}
	if !errors.Is(err, ErrDuplicateEvent) {
		t.Error("DuplicateEventError 应展开为 ErrDuplicateEvent")
	}
	if MessageIDOf(err) != "DuplicateEvent" {
		t.Errorf("期望翻译 ID DuplicateEvent，实际: %s", MessageIDOf(err))
	}
}
