// Package models defines the core domain models for TaskHive.
//
// # Models
//
//   - User: a registered account, identified by a unique email
//   - TaskList: a collaborative checklist shared by one or more users
//   - ToDo: a single checklist item belonging to exactly one TaskList
//
// # Design Principles
//
// 1. **Avoid circular references**: relationships use ID strings, never
// pointers, so models stay cheap to copy and serialize
// 2. **Store-assigned identity**: IDs and creation timestamps are generated
// by the storage layer when a model is first persisted
// 3. **Derived state is not stored**: a TaskList's progress is computed on
// read from its ToDos
package models
