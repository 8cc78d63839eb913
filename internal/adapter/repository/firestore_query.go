package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"

	"valomarket/pkg/errors"
)

const (
	usersCollection       = "users"
	usernamesCollection   = "usernames"
	listingsCollection    = "listings"
	depositsCollection    = "deposits"
	withdrawalsCollection = "withdrawals"
	ledgerCollection      = "ledger_entries"
	purchasesCollection   = "purchases"
	chatsCollection       = "chats"
)

// collect drains iter into typed documents.
func collect[T any](iter *firestore.DocumentIterator, resource string) ([]*T, error) {
	defer iter.Stop()

	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromStore(resource, err)
		}

		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse "+resource+" data", err)
		}
		out = append(out, &item)
	}
	return out, nil
}

// first returns the first document of query or a NOT_FOUND error.
func first[T any](ctx context.Context, query firestore.Query, resource string) (*T, error) {
	items, err := collect[T](query.Limit(1).Documents(ctx), resource)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NotFound(resource, nil)
	}
	return items[0], nil
}

func getByID[T any](ctx context.Context, ref *firestore.DocumentRef, resource string) (*T, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		return nil, errors.FromStore(resource, err)
	}

	var item T
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse "+resource+" data", err)
	}
	return &item, nil
}

func count(ctx context.Context, query firestore.Query, resource string) (int64, error) {
	result, err := query.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, errors.FromStore(resource, err)
	}

	v, ok := result["total"].(*firestorepb.Value)
	if !ok {
		return 0, errors.Internal("Unexpected count result for "+resource, nil)
	}
	return v.GetIntegerValue(), nil
}

func paginate(query firestore.Query, limit, offset int) firestore.Query {
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}
