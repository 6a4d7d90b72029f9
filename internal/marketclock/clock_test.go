package marketclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CalendarTestSuite struct {
	suite.Suite
}

func TestCalendarSuite(t *testing.T) {
	suite.Run(t, new(CalendarTestSuite))
}

func (suite *CalendarTestSuite) newCalendar(now time.Time) *Calendar {
	cal, err := NewCalendar("America/New_York", 16, 0, 30*time.Minute, FixedClock{Time: now})
	suite.Require().NoError(err)

	return cal
}

func (suite *CalendarTestSuite) TestEndDateAfterCutoffIsToday() {
	est, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	// 17:00 local, past 16:30 cutoff.
	cal := suite.newCalendar(time.Date(2025, 3, 10, 17, 0, 0, 0, est))
	suite.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), cal.EndDate())
}

func (suite *CalendarTestSuite) TestEndDateAtCutoffIsToday() {
	est, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	cal := suite.newCalendar(time.Date(2025, 3, 10, 16, 30, 0, 0, est))
	suite.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), cal.EndDate())
}

func (suite *CalendarTestSuite) TestEndDateBeforeCutoffIsYesterday() {
	est, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	cal := suite.newCalendar(time.Date(2025, 3, 10, 16, 29, 59, 0, est))
	suite.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), cal.EndDate())
}

func (suite *CalendarTestSuite) TestEndDateConvertsWallClockToExchangeZone() {
	// 19:00 UTC on 2025-03-10 is 15:00 in New York (DST), before the
	// cutoff, so the end date is the previous day.
	cal := suite.newCalendar(time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC))
	suite.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), cal.EndDate())
}

func (suite *CalendarTestSuite) TestToday() {
	est, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	cal := suite.newCalendar(time.Date(2025, 3, 10, 9, 0, 0, 0, est))
	suite.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), cal.Today())
}

func (suite *CalendarTestSuite) TestUnknownTimezone() {
	_, err := NewCalendar("Mars/Olympus", 16, 0, 30*time.Minute, SystemClock{})
	suite.Error(err)
}
