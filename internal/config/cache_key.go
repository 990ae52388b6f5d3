package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key holding a student's active token ID
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// StudentLockKey returns the key that serializes add/drop for one student
func (r *CacheKeyStruct) StudentLockKey(matric string) string {
	return fmt.Sprintf("lock:student:%s", matric)
}

// TimetableChannel returns the Redis PubSub channel announcing a student's timetable changes
func (r *CacheKeyStruct) TimetableChannel(matric string) string {
	return fmt.Sprintf("student:%s:timetable", matric)
}

var CacheKey = NewCacheKeyStruct()
