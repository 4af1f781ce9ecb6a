package main

import (
	"errors"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	return m.Called().Error(0)
}

func (m *MockMigrator) Steps(n int) error {
	return m.Called(n).Error(0)
}

func (m *MockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func TestValidateMode(t *testing.T) {
	assert.NoError(t, validateMode("up"))
	assert.NoError(t, validateMode("down"))
	assert.NoError(t, validateMode("version"))
	assert.Error(t, validateMode("sideways"))
}

func TestRun(t *testing.T) {
	t.Run("Up applies migrations", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Up").Return(nil)
		m.On("Version").Return(uint(1), false, nil)

		assert.NoError(t, run(m, "up"))
		m.AssertExpectations(t)
	})

	t.Run("Up with nothing new is not an error", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Up").Return(migrate.ErrNoChange)

		assert.NoError(t, run(m, "up"))
		m.AssertNotCalled(t, "Version")
	})

	t.Run("Up failure", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Up").Return(errors.New("syntax error"))

		err := run(m, "up")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "could not run migrations")
	})

	t.Run("Down rolls back one step", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Steps", -1).Return(nil)
		m.On("Version").Return(uint(0), false, migrate.ErrNilVersion)

		assert.NoError(t, run(m, "down"))
		m.AssertExpectations(t)
	})

	t.Run("Down failure", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Steps", -1).Return(os.ErrNotExist)

		err := run(m, "down")
		assert.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Version only", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Version").Return(uint(1), true, nil)

		assert.NoError(t, run(m, "version"))
		m.AssertNotCalled(t, "Up")
		m.AssertNotCalled(t, "Steps", mock.Anything)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		m := new(MockMigrator)

		assert.Error(t, run(m, "sideways"))
		m.AssertNotCalled(t, "Up")
	})
}
