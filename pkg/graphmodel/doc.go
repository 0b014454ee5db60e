// Package graphmodel maps labelled graph nodes to validated property sets.
//
// A Model declares the label and the fields its nodes may carry:
//
//	var Movie = &graphmodel.Model{
//	    Label: "Movie",
//	    Fields: map[string]graphmodel.Validator{
//	        "title":    graphmodel.String{MinLength: 1, MaxLength: 200},
//	        "released": graphmodel.Integer{Positive: true},
//	        "rating":   graphmodel.Float{Positive: true},
//	    },
//	    OnCreate: "node.created = timestamp()",
//	    OnMatch:  "node.updated = timestamp()",
//	}
//
// A Repository saves and loads nodes through any Querier, usually a
// *graphdb.Extension:
//
//	repo := graphmodel.NewRepository(ext, registry)
//	m := Movie.New()
//	_ = m.Set("title", "Heat")
//	err := repo.Save(ctx, m, graphmodel.SaveOptions{})
//	movies, err := repo.Find(ctx, graphmodel.FindOptions{Label: "Movie", Limit: 25})
//
// Saving merges on the node's uid by default. Find returns ErrNodeNotFound
// when nothing matches.
package graphmodel
