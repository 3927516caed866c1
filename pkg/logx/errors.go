package logx

import "errors"

var errNotObject = errors.New("logx: not a JSON object")
