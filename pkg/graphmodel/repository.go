package graphmodel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dmitrymomot/neoforge/pkg/graphdb"
)

// Querier runs a single statement. *graphdb.Extension implements it.
type Querier interface {
	Query(ctx context.Context, statement string, params map[string]any) (*graphdb.Result, error)
}

// Repository loads and saves model nodes.
type Repository struct {
	db     Querier
	models *Registry
	log    *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithRepositoryLogger logs generated statements at debug level.
func WithRepositoryLogger(log *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRepository returns a repository that runs statements through db.
// A nil registry treats every label as a model without declared fields.
func NewRepository(db Querier, models *Registry, opts ...RepositoryOption) *Repository {
	r := &Repository{
		db:     db,
		models: models,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindOptions narrows a Find call.
type FindOptions struct {
	// Label restricts results to nodes with this label. Empty matches all nodes.
	Label string
	// Limit caps the number of nodes. Zero means no limit.
	Limit int
	// Validate runs every loaded property through the model's validators.
	Validate bool
}

// Find loads nodes matching opts. It returns ErrNodeNotFound when nothing matches.
// Database errors are returned unchanged.
func (r *Repository) Find(ctx context.Context, opts FindOptions) ([]*Node, error) {
	var b strings.Builder
	params := map[string]any{}

	b.WriteString("MATCH (node)")
	if opts.Label != "" {
		if err := validateLabel(opts.Label); err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, " WHERE node:`%s`", opts.Label)
	}
	b.WriteString(" RETURN node")
	if opts.Limit > 0 {
		b.WriteString(" LIMIT $limit")
		params["limit"] = opts.Limit
	}

	query := b.String()
	r.log.DebugContext(ctx, "graphmodel: find", slog.String("query", query))

	res, err := r.db.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		return nil, ErrNodeNotFound
	}

	nodes := make([]*Node, 0, len(res.Records))
	for _, rec := range res.Records {
		raw, ok := rec.Get("node")
		if !ok {
			continue
		}
		gn, ok := raw.(neo4j.Node)
		if !ok {
			return nil, fmt.Errorf("graphmodel: unexpected value %T in node column", raw)
		}

		n := r.models.Lookup(r.labelOf(gn, opts.Label)).New()
		n.ElementID = gn.ElementId
		if err := n.load(gn.Props, opts.Validate); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// labelOf picks the label used to resolve the node's model:
// the requested label, then the first registered one, then the first present.
func (r *Repository) labelOf(n neo4j.Node, requested string) string {
	if requested != "" {
		return requested
	}
	for _, l := range n.Labels {
		if r.models.has(l) {
			return l
		}
	}
	if len(n.Labels) > 0 {
		return n.Labels[0]
	}
	return ""
}

// SaveOptions controls how Save writes a node.
type SaveOptions struct {
	// Create always inserts a new node instead of merging on uid.
	Create bool
}

// Save writes n to the database and records its element id.
// By default the node is merged on its uid, applying the model's OnCreate and
// OnMatch clauses. A uid is generated if the node has none.
func (r *Repository) Save(ctx context.Context, n *Node, opts SaveOptions) error {
	label := n.Label()
	if err := validateLabel(label); err != nil {
		return err
	}

	var query string
	params := map[string]any{}
	if opts.Create {
		query = fmt.Sprintf("CREATE (node:`%s` $properties)\nRETURN elementId(node) AS id", label)
	} else {
		lines := []string{fmt.Sprintf("MERGE (node:`%s` {uid: $uid})", label)}
		if m := n.Model(); m.OnCreate != "" {
			lines = append(lines, "ON CREATE SET "+m.OnCreate)
		}
		if m := n.Model(); m.OnMatch != "" {
			lines = append(lines, "ON MATCH SET "+m.OnMatch)
		}
		lines = append(lines, "SET node += $properties", "RETURN elementId(node) AS id")
		query = strings.Join(lines, "\n")
		params["uid"] = n.UID()
	}
	params["properties"] = n.Properties()

	r.log.DebugContext(ctx, "graphmodel: save", slog.String("node", n.String()), slog.String("query", query))

	res, err := r.db.Query(ctx, query, params)
	if err != nil {
		return err
	}
	if id, ok := res.Value("id"); ok {
		if s, ok := id.(string); ok {
			n.ElementID = s
		}
	}
	return nil
}
