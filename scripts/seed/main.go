package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Seeds a running server with a small demo dataset: a handful of
// students, courses and instructors, plus enrollments and grades, so
// the transcript and analytics endpoints have something to show.

type request struct {
	method string
	path   string
	body   map[string]interface{}
}

func main() {
	var (
		base    string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	requests := []request{
		{"POST", "/instructors", map[string]interface{}{
			"id": "i-1", "full_name": "Grace Hopper", "email": "grace@campus.edu",
			"department": "CS", "specialization": "Compilers",
		}},
		{"POST", "/students", map[string]interface{}{
			"id": "s-1", "reg_no": "2026CS001", "full_name": "Ada Lovelace", "email": "ada@campus.edu",
		}},
		{"POST", "/students", map[string]interface{}{
			"id": "s-2", "reg_no": "2026CS002", "full_name": "Alan Turing", "email": "alan@campus.edu",
		}},
		{"POST", "/courses", map[string]interface{}{
			"code": "CS101", "title": "Programming Fundamentals", "credits": 4,
			"semester": "FALL", "department": "CS", "instructor_id": "i-1",
		}},
		{"POST", "/courses", map[string]interface{}{
			"code": "MA201", "title": "Linear Algebra", "credits": 3,
			"semester": "FALL", "department": "Math",
		}},
		{"POST", "/enrollments", map[string]interface{}{"student_id": "s-1", "course_code": "CS101"}},
		{"POST", "/enrollments", map[string]interface{}{"student_id": "s-1", "course_code": "MA201"}},
		{"POST", "/enrollments", map[string]interface{}{"student_id": "s-2", "course_code": "CS101"}},
		{"POST", "/grades", map[string]interface{}{"student_id": "s-1", "course_code": "CS101", "grade": "A"}},
		{"POST", "/grades", map[string]interface{}{"student_id": "s-1", "course_code": "MA201", "grade": "B"}},
		{"POST", "/grades", map[string]interface{}{"student_id": "s-2", "course_code": "CS101", "grade": "S"}},
	}

	client := &http.Client{Timeout: timeout}
	for _, r := range requests {
		if err := send(client, base, r); err != nil {
			log.Fatalf("%s %s: %v", r.method, r.path, err)
		}
		fmt.Printf("ok %s %s\n", r.method, r.path)
	}
	fmt.Println("seed complete")
}

func send(client *http.Client, base string, r request) error {
	payload, err := json.Marshal(r.body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(r.method, base+r.path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
