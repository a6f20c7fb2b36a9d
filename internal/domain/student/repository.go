package student

import "context"

// Repository - хранилище записей на стороне сервера
type Repository interface {
	List(ctx context.Context) ([]Student, error)
	Get(ctx context.Context, id int) (Student, error)
	Create(ctx context.Context, d Draft) (Student, error)
	Update(ctx context.Context, s Student) (Student, error)
	Delete(ctx context.Context, id int) error
}
