package errorx

const errClusterPrefix = "CLS-ERR"

const (
	clusterNotFound = iota
	clusterNotReady
	insufficientCapacity
	unknownInstanceSize
)

var (
	// compute cluster not found
	//
	// Description: The named compute cluster does not exist in the workspace. It has either never been provisioned or was deleted.
	//
	// Description_ZH: 指定名称的计算集群在工作区中不存在，可能从未创建或已被删除。
	//
	// en-US: Compute cluster not found
	//
	// zh-CN: 未找到计算集群
	//
	// zh-HK: 未找到計算集群
	ErrClusterNotFound error = CustomError{prefix: errClusterPrefix, code: clusterNotFound}
	// compute cluster exists but is not ready for workloads
	//
	// Description: The compute cluster exists but is still provisioning or has become unavailable, so jobs cannot be scheduled on it yet.
	//
	// Description_ZH: 计算集群存在但仍在创建中或已不可用，暂时无法调度任务。
	//
	// en-US: Compute cluster is not ready
	//
	// zh-CN: 计算集群未就绪
	//
	// zh-HK: 計算集群未就緒
	ErrClusterNotReady error = CustomError{prefix: errClusterPrefix, code: clusterNotReady}
	// the pool cannot satisfy the requested size and node count
	//
	// Description: The node pool does not have enough free CPU, memory or accelerators to satisfy the requested instance size multiplied by the node count.
	//
	// Description_ZH: 节点池的空闲 CPU、内存或加速卡不足，无法满足实例规格乘以节点数的需求。
	//
	// en-US: Insufficient capacity for the requested cluster
	//
	// zh-CN: 集群容量不足
	//
	// zh-HK: 集群容量不足
	ErrInsufficientCapacity error = CustomError{prefix: errClusterPrefix, code: insufficientCapacity}
	// the requested instance size is not in the catalog
	//
	// Description: The requested instance size name does not match any entry in the instance size catalog.
	//
	// Description_ZH: 请求的实例规格名称不在实例规格目录中。
	//
	// en-US: Unknown instance size
	//
	// zh-CN: 未知的实例规格
	//
	// zh-HK: 未知的實例規格
	ErrUnknownInstanceSize error = CustomError{prefix: errClusterPrefix, code: unknownInstanceSize}
)

func ClusterNotFound(err error, ctx context) error {
	return CustomError{
		prefix:  errClusterPrefix,
		context: ctx,
		err:     err,
		code:    clusterNotFound,
	}
}

func InsufficientCapacity(err error, ctx context) error {
	return CustomError{
		prefix:  errClusterPrefix,
		context: ctx,
		err:     err,
		code:    insufficientCapacity,
	}
}
