package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestShiftThresholdMinutes(t *testing.T) {
	assert.Equal(t, 720, ShiftThresholdMinutes(domain.ShiftDay))
	assert.Equal(t, 480, ShiftThresholdMinutes(domain.ShiftA))
	assert.Equal(t, 480, ShiftThresholdMinutes(domain.ShiftGeneral))
	assert.Equal(t, 480, ShiftThresholdMinutes(""))
}

func TestWorkMinutes(t *testing.T) {
	tests := []struct {
		name     string
		timeIn   string
		timeOut  string
		expected int
		wantErr  bool
	}{
		{
			name:     "普通工作日",
			timeIn:   "09:00:00",
			timeOut:  "17:30:00",
			expected: 510,
		},
		{
			name:     "签到签退同一时刻",
			timeIn:   "09:00:00",
			timeOut:  "09:00:00",
			expected: 0,
		},
		{
			name:     "夜班跨越午夜",
			timeIn:   "23:30:00",
			timeOut:  "00:15:00",
			expected: 45,
		},
		{
			name:     "夜班跨越午夜到清晨",
			timeIn:   "22:00:00",
			timeOut:  "06:00:00",
			expected: 480,
		},
		{
			name:    "签到时间格式错误",
			timeIn:  "9点",
			timeOut: "17:00:00",
			wantErr: true,
		},
		{
			name:    "签退时间格式错误",
			timeIn:  "09:00:00",
			timeOut: "下午五点",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := WorkMinutes(tt.timeIn, tt.timeOut)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, total)
		})
	}
}

func TestOvertime(t *testing.T) {
	tests := []struct {
		name            string
		totalMinutes    int
		threshold       int
		expectedFlag    bool
		expectedMinutes int
	}{
		{
			name:         "D 班刚好达到阈值不算加班",
			totalMinutes: 720,
			threshold:    720,
		},
		{
			name:            "D 班超过阈值",
			totalMinutes:    750,
			threshold:       720,
			expectedFlag:    true,
			expectedMinutes: 30,
		},
		{
			name:         "普通班刚好达到阈值不算加班",
			totalMinutes: 480,
			threshold:    480,
		},
		{
			name:            "普通班超出一分钟",
			totalMinutes:    481,
			threshold:       480,
			expectedFlag:    true,
			expectedMinutes: 1,
		},
		{
			name:         "不足阈值",
			totalMinutes: 300,
			threshold:    480,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag, minutes := Overtime(tt.totalMinutes, tt.threshold)
			assert.Equal(t, tt.expectedFlag, flag)
			assert.Equal(t, tt.expectedMinutes, minutes)
		})
	}
}

func TestFinalize(t *testing.T) {
	t.Run("签到签退齐全时计算工时和加班", func(t *testing.T) {
		record := &domain.AttendanceRecord{
			TimeIn:  strPtr("08:00:00"),
			TimeOut: strPtr("17:30:00"),
		}

		require.NoError(t, Finalize(record, domain.ShiftGeneral))
		assert.Equal(t, 570, record.TotalWorkMinutes)
		assert.True(t, record.Overtime)
		assert.Equal(t, 90, record.OvertimeMinutes)
	})

	t.Run("D 班用 12 小时阈值", func(t *testing.T) {
		record := &domain.AttendanceRecord{
			TimeIn:  strPtr("08:00:00"),
			TimeOut: strPtr("17:30:00"),
		}

		require.NoError(t, Finalize(record, domain.ShiftDay))
		assert.Equal(t, 570, record.TotalWorkMinutes)
		assert.False(t, record.Overtime)
		assert.Equal(t, 0, record.OvertimeMinutes)
	})

	t.Run("缺少签退时全部归零", func(t *testing.T) {
		record := &domain.AttendanceRecord{
			TimeIn:           strPtr("08:00:00"),
			TotalWorkMinutes: 100,
			Overtime:         true,
			OvertimeMinutes:  20,
		}

		require.NoError(t, Finalize(record, domain.ShiftGeneral))
		assert.Equal(t, 0, record.TotalWorkMinutes)
		assert.False(t, record.Overtime)
		assert.Equal(t, 0, record.OvertimeMinutes)
	})
}

func TestMark(t *testing.T) {
	t.Run("没有记录时签到", func(t *testing.T) {
		record, action, err := Mark(nil, "EMP00001", "2025-03-10", "08:55:00", "DEV-01", domain.ShiftGeneral)

		require.NoError(t, err)
		assert.Equal(t, domain.ActionTimeIn, action)
		assert.Equal(t, "EMP00001", record.EmployeeNo)
		assert.Equal(t, "2025-03-10", record.Date)
		require.NotNil(t, record.TimeIn)
		assert.Equal(t, "08:55:00", *record.TimeIn)
		assert.Nil(t, record.TimeOut)
	})

	t.Run("已签到时签退并结算", func(t *testing.T) {
		existing := &domain.AttendanceRecord{
			EmployeeNo: "EMP00001",
			Date:       "2025-03-10",
			TimeIn:     strPtr("08:55:00"),
		}

		record, action, err := Mark(existing, "EMP00001", "2025-03-10", "18:00:00", "DEV-02", domain.ShiftGeneral)

		require.NoError(t, err)
		assert.Equal(t, domain.ActionTimeOut, action)
		require.NotNil(t, record.TimeOut)
		assert.Equal(t, "18:00:00", *record.TimeOut)
		assert.Equal(t, 545, record.TotalWorkMinutes)
		assert.True(t, record.Overtime)
		assert.Equal(t, 65, record.OvertimeMinutes)
		// 签退设备覆盖签到设备
		require.NotNil(t, record.DeviceID)
		assert.Equal(t, "DEV-02", *record.DeviceID)
	})

	t.Run("已完成的记录不再变化", func(t *testing.T) {
		existing := &domain.AttendanceRecord{
			EmployeeNo:       "EMP00001",
			Date:             "2025-03-10",
			TimeIn:           strPtr("08:55:00"),
			TimeOut:          strPtr("18:00:00"),
			TotalWorkMinutes: 545,
		}

		record, action, err := Mark(existing, "EMP00001", "2025-03-10", "20:00:00", "DEV-01", domain.ShiftGeneral)

		require.NoError(t, err)
		assert.Equal(t, domain.ActionAlreadyMarked, action)
		assert.Equal(t, "18:00:00", *record.TimeOut)
		assert.Equal(t, 545, record.TotalWorkMinutes)
	})
}

func TestDayStatus(t *testing.T) {
	assert.Equal(t, domain.StatusNotMarked, DayStatus(nil))
	assert.Equal(t, domain.StatusTimeInOnly, DayStatus(&domain.AttendanceRecord{TimeIn: strPtr("09:00:00")}))
	assert.Equal(t, domain.StatusComplete, DayStatus(&domain.AttendanceRecord{TimeIn: strPtr("09:00:00"), TimeOut: strPtr("18:00:00")}))
}

func TestSummarize(t *testing.T) {
	records := []*domain.AttendanceRecord{
		{TimeIn: strPtr("08:30:00"), TimeOut: strPtr("17:00:00")},
		{TimeIn: strPtr("09:00:00"), TimeOut: strPtr("21:30:00"), Overtime: true, OvertimeMinutes: 270},
		{TimeIn: strPtr("09:20:00")},
	}

	summary := Summarize("2025-03-10", records, 5, "09:00:00")

	assert.Equal(t, "2025-03-10", summary.Date)
	assert.Equal(t, 5, summary.TotalEmployees)
	assert.Equal(t, 3, summary.Present)
	assert.Equal(t, 2, summary.Absent)
	// 准点的判定是不晚于 cutoff，09:00:00 本身算准点
	assert.Equal(t, 2, summary.OnTime)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 1, summary.OvertimeCount)
}

func TestSummarizeEmptyDay(t *testing.T) {
	summary := Summarize("2025-03-10", nil, 5, "09:00:00")

	assert.Equal(t, 0, summary.Present)
	assert.Equal(t, 5, summary.Absent)
	assert.Equal(t, 0, summary.OnTime)
	assert.Equal(t, 0, summary.Late)
}
