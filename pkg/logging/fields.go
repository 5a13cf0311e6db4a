package logging

import (
	"time"
)

// Generic field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for names that recur across the pipeline
func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

func TaskID(id string) Field {
	return String("task_id", id)
}

func UserID(id int64) Field {
	return Int64("user_id", id)
}

func Generation(n int) Field {
	return Int("generation", n)
}

func Fitness(f float64) Field {
	return Float64("fitness", f)
}

func Communities(n int) Field {
	return Int("communities", n)
}

func Vertices(n int) Field {
	return Int("vertices", n)
}

func Edges(n int) Field {
	return Int("edges", n)
}

func Seed(s int64) Field {
	return Int64("seed", s)
}
