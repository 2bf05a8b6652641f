package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	updated service.ProductUpdateDto
	deleted int64
}

func (f *fakeClient) GetProduct(_ context.Context, id int64) (*service.ProductDto, error) {
	return &service.ProductDto{ID: id, Name: "Notebook"}, nil
}

func (f *fakeClient) ListProducts(context.Context) ([]service.ProductDto, error) {
	return []service.ProductDto{}, nil
}

func (f *fakeClient) CreateProduct(_ context.Context, p service.ProductCreateDto) (*service.ProductDto, error) {
	return &service.ProductDto{ID: 1, Name: p.Name, Description: p.Description, Price: *p.Price, Amount: *p.Amount}, nil
}

func (f *fakeClient) UpdateProduct(_ context.Context, id int64, p service.ProductUpdateDto) (*service.ProductDto, error) {
	f.updated = p
	return &service.ProductDto{ID: id}, nil
}

func (f *fakeClient) DeleteProduct(_ context.Context, id int64) error {
	f.deleted = id
	return nil
}

func Test_parseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--addr", "catalog:9090", "get", "7"})
	require.NoError(t, err)
	assert.Equal(t, "catalog:9090", opts.client.Addr)
	assert.Equal(t, []string{"get", "7"}, opts.args)
	assert.NoError(t, opts.client.Validate())

	_, err = parseFlags(nil)
	assert.ErrorIs(t, err, errUsage)
}

func Test_run(t *testing.T) {
	// given
	fc := &fakeClient{}
	var out bytes.Buffer

	// when
	opts, err := parseFlags([]string{"create", "--name", "Notebook", "--description", "Dell", "--price", "3500", "--amount", "10"})
	require.NoError(t, err)
	require.NoError(t, run(context.Background(), fc, opts, &out))

	// then
	assert.JSONEq(t, `{"id":1,"name":"Notebook","description":"Dell","price":3500,"amount":10}`, out.String())

	// when
	opts, err = parseFlags([]string{"update", "3", "--price", "3000"})
	require.NoError(t, err)
	require.NoError(t, run(context.Background(), fc, opts, &out))

	// then
	require.NotNil(t, fc.updated.Price)
	assert.Equal(t, 3000.0, *fc.updated.Price)
	assert.Nil(t, fc.updated.Name)
	assert.Nil(t, fc.updated.Amount)

	// when
	opts, err = parseFlags([]string{"delete", "abc"})
	require.NoError(t, err)

	// then
	assert.Error(t, run(context.Background(), fc, opts, &out))
	assert.Zero(t, fc.deleted)
}
