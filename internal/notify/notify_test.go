package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderAndMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, b}

	m.Success(TitleOfferAccepted, MsgOfferAccepted)
	m.Warning(TitleComplaintDuplicate, MsgComplaintDuplicate)

	assert.Len(t, a.Toasts(), 2)
	assert.Len(t, b.Toasts(), 2)

	last, ok := a.Last()
	assert.True(t, ok)
	assert.Equal(t, LevelWarning, last.Level)

	drained := a.Drain()
	assert.Len(t, drained, 2)
	assert.Empty(t, a.Toasts())
	_, ok = a.Last()
	assert.False(t, ok)
}

func TestCancellationMessageFormat(t *testing.T) {
	got := fmt.Sprintf(MsgCancellationRequestedFmt, "70")
	assert.Equal(t, "تم إرسال طلب الإلغاء بنجاح. نسبة الاسترداد المتوقعة: 70%", got)
}
