package ethereum

// EscrowABI is the interface of the deployed escrow contract used by the reader.
const EscrowABI = `[
  {"type":"event","name":"EscrowCreated","anonymous":false,"inputs":[
    {"name":"escrowId","type":"uint256","indexed":true},
    {"name":"depositor","type":"address","indexed":true},
    {"name":"beneficiary","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"EscrowApproved","anonymous":false,"inputs":[
    {"name":"escrowId","type":"uint256","indexed":true},
    {"name":"party","type":"address","indexed":true}]},
  {"type":"event","name":"EscrowActivated","anonymous":false,"inputs":[
    {"name":"escrowId","type":"uint256","indexed":true}]},
  {"type":"event","name":"EscrowReleased","anonymous":false,"inputs":[
    {"name":"escrowId","type":"uint256","indexed":true},
    {"name":"beneficiary","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"EscrowRefunded","anonymous":false,"inputs":[
    {"name":"escrowId","type":"uint256","indexed":true},
    {"name":"depositor","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"EscrowCancelled","anonymous":false,"inputs":[
    {"name":"escrowId","type":"uint256","indexed":true},
    {"name":"depositor","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"function","name":"getEscrow","stateMutability":"view",
   "inputs":[{"name":"escrowId","type":"uint256"}],
   "outputs":[
    {"name":"depositor","type":"address"},
    {"name":"beneficiary","type":"address"},
    {"name":"amount","type":"uint256"},
    {"name":"releaseConditions","type":"string"},
    {"name":"state","type":"uint8"},
    {"name":"depositorApproved","type":"bool"},
    {"name":"beneficiaryApproved","type":"bool"}]}
]`
