package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2025, 10, 15, 9, 5, 30, 0, time.UTC))
	assert.Equal(t, TimeString("09:05"), ts)
}

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("10:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), ts)

	// Часы без ведущего нуля приводятся к каноничному виду
	ts, err = NewTimeStringFromString("9:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:00"), ts)

	ts, err = NewTimeStringFromString("24:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.Error(t, err)

	_, err = NewTimeStringFromString("abc")
	assert.Error(t, err)
}

func TestTimeString_Minutes(t *testing.T) {
	tests := []struct {
		in      TimeString
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false}, // эксклюзивная верхняя граница окна
		{"24:01", 0, true},
		{"garbage", 0, true},
	}

	for _, tt := range tests {
		got, err := tt.in.Minutes()
		if tt.wantErr {
			assert.Error(t, err, "Minutes(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "Minutes(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Minutes(%q)", tt.in)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("09:00")

	got, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), got)

	// Ровно до конца суток - верхняя граница
	got, err = TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	// За пределы суток - ошибка, слоты не пересекают полночь
	_, err = TimeString("23:30").AddMinutes(31)
	assert.Error(t, err)

	_, err = TimeString("01:00").AddMinutes(-90)
	assert.Error(t, err)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:30").IsAfter("10:00"))
	assert.True(t, TimeString("24:00").IsAfter("23:59"))

	// Сравнение по минутам, а не по строкам: "9:00" раньше "17:00"
	assert.True(t, TimeString("9:00").IsBefore("17:00"))
	assert.False(t, TimeString("9:00").IsAfter("17:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres возвращает TIME как "HH:MM:SS"
	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("09:00:00")))
	assert.Equal(t, TimeString("09:00"), ts)

	// Верхняя граница окна читается из БД без потерь
	require.NoError(t, ts.Scan("24:00"))
	assert.Equal(t, TimeString("24:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:30", v)
}
