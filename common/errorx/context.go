package errorx

// context carries key/value detail attached to a coded error, surfaced
// by CustomError.Detail in log lines.
type context map[string]interface{}

// Ctx starts an empty detail map. Chain Set calls to fill it:
//
//	errorx.Ctx().Set("cluster_id", id).Set("region", region)
func Ctx() context {
	return make(context)
}

func (ctx context) Set(key string, value interface{}) context {
	ctx[key] = value
	return ctx
}
