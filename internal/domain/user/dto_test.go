package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmployeeStats_Rates(t *testing.T) {
	stats := NewEmployeeStats(1, 5, 2, 2, 0)

	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 60, stats.OnTimeRate) // early counts as on time
	assert.Equal(t, 20, stats.LateRate)
	assert.Equal(t, 20, stats.AbsentRate)
}

func TestNewEmployeeStats_RedFlag(t *testing.T) {
	// 4 problem records out of 10 is 40%, over the threshold
	stats := NewEmployeeStats(0, 6, 2, 2, 0)
	assert.True(t, stats.IsRedFlag)

	// 3 out of 10 is 30%, not strictly over
	stats = NewEmployeeStats(0, 7, 2, 1, 0)
	assert.False(t, stats.IsRedFlag)

	// Too few records to judge, even at a 100% problem rate
	stats = NewEmployeeStats(0, 0, 2, 2, 0)
	assert.True(t, stats.Total < RedFlagMinRecords)
	assert.False(t, stats.IsRedFlag)
}

func TestNewEmployeeStats_Empty(t *testing.T) {
	stats := NewEmployeeStats(0, 0, 0, 0, 0)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.OnTimeRate)
	assert.False(t, stats.IsRedFlag)
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	valid := CreateEmployeeRequest{Name: "Jo", Email: "jo@example.com", Password: "secret1"}
	assert.NoError(t, valid.Validate())

	bad := CreateEmployeeRequest{Name: " ", Email: "nope", Password: "123"}
	err := bad.Validate()
	assert.Error(t, err)
}

func TestUpdateEmployeeRequest_ValidateShiftTimes(t *testing.T) {
	goodTime := "21:00"
	req := UpdateEmployeeRequest{ID: "u1", CheckInTime: &goodTime}
	assert.NoError(t, req.Validate())

	badTime := "25:00"
	req = UpdateEmployeeRequest{ID: "u1", CheckInTime: &badTime}
	assert.Error(t, req.Validate())

	// Empty string clears the personal time and is allowed
	empty := ""
	req = UpdateEmployeeRequest{ID: "u1", CheckOutTime: &empty}
	assert.NoError(t, req.Validate())
}
