// Package middleware wraps flash stores with encryption at rest and PII masking.
package middleware
