// Copyright (C) 2024, MoveLabs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/movelabs/sui-go/types"
)

// ObjectStore fetches current object references, typically backed by a
// fullnode RPC client. Implementations may return a map missing some
// requested ids; the resolver reports those as ErrObjectNotFound.
type ObjectStore interface {
	MultiGetObjectRefs(ctx context.Context, ids []types.ObjectID) (map[types.ObjectID]types.ObjectRef, error)
}

// ResolveObjects fetches references for every pending object input and
// patches the slots. Ids are fetched in batches of the configured size,
// batches in flight concurrently. Resolution is atomic: if any batch
// fails or any id is missing, no slot changes.
func (b *Builder) ResolveObjects(ctx context.Context, store ObjectStore) error {
	if b.finished {
		return ErrBuilderFinished
	}
	ids := b.PendingObjects()
	if len(ids) == 0 {
		return nil
	}

	chunks := chunkIDs(ids, b.batchSize)
	results := make([]map[types.ObjectID]types.ObjectRef, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			refs, err := store.MultiGetObjectRefs(gctx, chunk)
			if err != nil {
				return fmt.Errorf("fetching %d object refs: %w", len(chunk), err)
			}
			results[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	resolved := make(map[types.ObjectID]types.ObjectRef, len(ids))
	for _, refs := range results {
		for id, ref := range refs {
			resolved[id] = ref
		}
	}
	for _, id := range ids {
		if _, ok := resolved[id]; !ok {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
		}
	}

	for i := range b.inputs {
		if b.inputs[i].pending == nil {
			continue
		}
		ref := resolved[*b.inputs[i].pending]
		b.inputs[i] = inputSlot{arg: ImmOrOwnedObject{Ref: ref}}
	}
	b.log.Debug("resolved object inputs",
		zap.Int("objects", len(ids)),
		zap.Int("batches", len(chunks)),
	)
	return nil
}

// BuildAsync resolves pending object inputs against [store] and then
// builds the envelope.
func (b *Builder) BuildAsync(ctx context.Context, store ObjectStore) ([]byte, error) {
	if err := b.ResolveObjects(ctx, store); err != nil {
		return nil, err
	}
	return b.Build()
}

func chunkIDs(ids []types.ObjectID, size int) [][]types.ObjectID {
	var chunks [][]types.ObjectID
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	return append(chunks, ids)
}
